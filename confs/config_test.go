package confs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "30d", want: 30 * 24 * time.Hour},
		{in: "90m", want: 90 * time.Minute},
		{in: "12h", want: 12 * time.Hour},
		{in: "0d", wantErr: true},
		{in: "xd", wantErr: true},
		{in: "-5m", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("requires a JWT secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("PORT", "")
		t.Setenv("JWT_EXPIRE", "")
		t.Setenv("JWT_COOKIE_EXPIRE", "")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, "5000", cfg.Port)
		assert.Equal(t, 30*24*time.Hour, cfg.JWTExpire)
		assert.Equal(t, 30, cfg.JWTCookieExpire)
		assert.Equal(t, 10*time.Minute, cfg.GithubCacheTTL)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("rejects a bad cookie expiry", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("JWT_COOKIE_EXPIRE", "thirty")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
