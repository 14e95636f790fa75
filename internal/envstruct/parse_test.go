package envstruct_test

import (
	"strings"
	"testing"

	"github.com/myrjola/casefile/internal/envstruct"
	"github.com/stretchr/testify/require"
)

func TestPopulate(t *testing.T) {
	unset := func(_ string) (string, bool) { return "", false }
	type args struct {
		v         any
		lookupEnv func(string) (string, bool)
	}
	tests := []struct {
		name    string
		args    args
		want    any
		wantErr error
	}{
		{
			name:    "nil",
			args:    args{v: nil, lookupEnv: unset},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "not pointer",
			args:    args{v: struct{}{}, lookupEnv: unset},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name:    "empty struct",
			args:    args{v: &struct{}{}, lookupEnv: unset},
			want:    &struct{}{},
			wantErr: nil,
		},
		{
			name: "empty env",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Addr string `env:"CASEFILE_ADDR"`
				}{},
				lookupEnv: unset,
			},
			want:    nil,
			wantErr: envstruct.ErrEnvNotSet,
		},
		{
			name: "picks correct env variable",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Addr       string `env:"CASEFILE_ADDR"`
					SqliteURL  string `env:"CASEFILE_SQLITE_URL"`
					OtherValue string
				}{},
				lookupEnv: func(s string) (string, bool) { return strings.ToLower(s), true },
			},
			want: &struct {
				Addr       string
				SqliteURL  string
				OtherValue string
			}{Addr: "casefile_addr", SqliteURL: "casefile_sqlite_url", OtherValue: ""},
			wantErr: nil,
		},
		{
			name: "handles default value",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Store string `env:"CASEFILE_STORE" envDefault:"sqlite"`
				}{},
				lookupEnv: unset,
			},
			want:    &struct{ Store string }{Store: "sqlite"},
			wantErr: nil,
		},
		{
			name: "parses bool and int",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Debug      bool `env:"CASEFILE_DEBUG"`
					MaxTokens  int  `env:"CASEFILE_MAX_TOKENS"`
					DefaultInt int  `env:"CASEFILE_DEFAULT_INT" envDefault:"42"`
				}{},
				lookupEnv: func(s string) (string, bool) {
					switch s {
					case "CASEFILE_DEBUG":
						return "true", true
					case "CASEFILE_MAX_TOKENS":
						return "1000", true
					}
					return "", false
				},
			},
			want: &struct {
				Debug      bool
				MaxTokens  int
				DefaultInt int
			}{Debug: true, MaxTokens: 1000, DefaultInt: 42},
			wantErr: nil,
		},
		{
			name: "rejects malformed int",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					MaxTokens int `env:"CASEFILE_MAX_TOKENS"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "many", true },
			},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name: "rejects unsupported kinds",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Ratio float64 `env:"CASEFILE_RATIO"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "0.5", true },
			},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.args.v
			err := envstruct.Populate(v, tt.args.lookupEnv)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.EqualValues(t, tt.want, v)
			}
		})
	}
}
