package kconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *Snapshot {
	t.Helper()
	s, err := ParseBytes([]byte(text), "test")
	require.NoError(t, err)
	return s
}

func TestDerive(t *testing.T) {
	t.Run("should disable an enabled key and leave the rest alone", func(t *testing.T) {
		upstream := mustParse(t, "CONFIG_A=y\nCONFIG_FOO=y\nCONFIG_B=m\n")

		derived := Derive(upstream, []Override{Unset("CONFIG_FOO")})

		assert.Equal(t, Disabled, derived.Get("CONFIG_FOO").State)
		assert.Equal(t, "CONFIG_A=y\n# CONFIG_FOO is not set\nCONFIG_B=m\n", derived.String())
		for _, k := range []string{"CONFIG_A", "CONFIG_B"} {
			assert.Equal(t, upstream.Get(k), derived.Get(k))
		}
	})

	t.Run("should not modify upstream", func(t *testing.T) {
		upstream := mustParse(t, "CONFIG_FOO=y\n")

		Derive(upstream, []Override{Unset("CONFIG_FOO")})

		assert.Equal(t, "CONFIG_FOO=y\n", upstream.String())
	})

	t.Run("should rewrite a disabled key in place", func(t *testing.T) {
		upstream := mustParse(t, "CONFIG_A=y\n# CONFIG_SECURITY is not set\nCONFIG_B=y\n")

		derived := Derive(upstream, []Override{Set("CONFIG_SECURITY", "y")})

		assert.Equal(t, "CONFIG_A=y\nCONFIG_SECURITY=y\nCONFIG_B=y\n", derived.String())
	})

	t.Run("should insert missing keys after their anchor", func(t *testing.T) {
		upstream := mustParse(t, "CONFIG_A=y\n# CONFIG_SECURITY is not set\nCONFIG_B=y\n")

		derived := Derive(upstream, []Override{
			Set("CONFIG_SECURITY", "y"),
			Set("CONFIG_SECURITY_LANDLOCK", "y").After("CONFIG_SECURITY"),
			Set("CONFIG_LSM", `"landlock,yama"`),
		})

		assert.Equal(t,
			"CONFIG_A=y\nCONFIG_SECURITY=y\nCONFIG_SECURITY_LANDLOCK=y\nCONFIG_B=y\nCONFIG_LSM=\"landlock,yama\"\n",
			derived.String())
	})

	t.Run("should append when the anchor is missing", func(t *testing.T) {
		upstream := mustParse(t, "CONFIG_A=y\n")

		derived := Derive(upstream, []Override{Set("CONFIG_X", "1").After("CONFIG_NOPE")})

		assert.Equal(t, "CONFIG_A=y\nCONFIG_X=1\n", derived.String())
	})

	t.Run("should let later rules win", func(t *testing.T) {
		upstream := mustParse(t, "CONFIG_A=y\n")

		derived := Derive(upstream, []Override{
			Set("CONFIG_X", "1"),
			Unset("CONFIG_A"),
			Set("CONFIG_X", "2"),
			Set("CONFIG_A", "m"),
		})

		assert.Equal(t, "CONFIG_A=m\nCONFIG_X=2\n", derived.String())
	})

	t.Run("should keep every upstream key", func(t *testing.T) {
		upstream := mustParse(t, kcfg)

		derived := Derive(upstream, []Override{Unset("CONFIG_CC_IS_GCC"), Set("CONFIG_NEW", "y")})

		for _, k := range upstream.Keys() {
			assert.True(t, derived.Has(k), k)
		}
		assert.Equal(t, upstream.Len()+1, derived.Len())
	})
}

func TestOverrideEntry(t *testing.T) {
	assert.Equal(t, "CONFIG_A=y", Override{Key: "CONFIG_A", State: Enabled}.Entry().String())
	assert.Equal(t, "CONFIG_A=m", Override{Key: "CONFIG_A", State: Module}.Entry().String())
	assert.Equal(t, "# CONFIG_A is not set", Unset("CONFIG_A").Entry().String())
	assert.Equal(t, Enabled, Set("CONFIG_A", "y").Entry().State)
	assert.Equal(t, Value, Set("CONFIG_A", "12").Entry().State)
}

func TestRequire(t *testing.T) {
	lsm := `"landlock,lockdown,yama"`

	t.Run("should pass when the value matches", func(t *testing.T) {
		s := mustParse(t, "CONFIG_LSM="+lsm+"\n")
		assert.NoError(t, Require(s, []Override{Set("CONFIG_LSM", lsm)}))
	})

	t.Run("should report an unexpected value", func(t *testing.T) {
		s := mustParse(t, "CONFIG_LSM=\"yama\"\n")

		err := Require(s, []Override{Set("CONFIG_LSM", lsm)})

		var eerr *ExpectationError
		require.True(t, errors.As(err, &eerr))
		assert.Equal(t, "CONFIG_LSM", eerr.Key)
		assert.Contains(t, err.Error(), "unexpected CONFIG_LSM value")
	})

	t.Run("should report a missing key", func(t *testing.T) {
		s := mustParse(t, "CONFIG_A=y\n")

		err := Require(s, []Override{Set("CONFIG_LSM", lsm)})

		assert.EqualError(t, err, "derived configuration is missing CONFIG_LSM")
	})
}

func TestOverrideValidate(t *testing.T) {
	valid := []Override{
		Set("CONFIG_A", "y"),
		Set("CONFIG_LSM", `"landlock,yama"`),
		Set("CONFIG_HZ", "250").After("CONFIG_HZ_250"),
		Unset("CONFIG_FOO"),
		{Key: "CONFIG_B", State: Module},
	}
	for _, o := range valid {
		assert.NoError(t, o.Validate(), o.Key)
	}

	invalid := []Override{
		{},
		Set("CONFIG FOO", "y"),
		Unset("CONFIG FOO"),
		Set("CONFIG_A=B", "y"),
		Set("CONFIG_NL", "1\nGARBAGE"),
		Set("CONFIG_CR", "1\r"),
		Set("CONFIG_WS", "1 "),
		{Key: "CONFIG_EMPTY"},
	}
	for _, o := range invalid {
		assert.Error(t, o.Validate(), o.Key)
	}
}
