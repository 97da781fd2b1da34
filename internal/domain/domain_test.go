package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moufette/console/internal/domain"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"valid simple", "my-site", nil},
		{"valid with numbers", "shop-2024", nil},
		{"valid minimum length", "abc", nil},
		{"valid maximum length", strings.Repeat("a", 63), nil},

		{"too short", "ab", domain.ErrKeyTooShort},
		{"too long", strings.Repeat("a", 64), domain.ErrKeyTooLong},
		{"starts with number", "1my-site", domain.ErrKeyInvalidStart},
		{"starts with hyphen", "-my-site", domain.ErrKeyInvalidStart},
		{"starts with uppercase", "My-site", domain.ErrKeyInvalidStart},
		{"ends with hyphen", "my-site-", domain.ErrKeyInvalidEnd},
		{"consecutive hyphens", "my--site", domain.ErrKeyConsecutiveHyphens},
		{"underscore", "my_site", domain.ErrKeyInvalidChars},
		{"dot", "my.site", domain.ErrKeyInvalidChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateKey(tt.key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "My Site", "my-site"},
		{"domain", "example.com", "example-com"},
		{"subdomain", "www.acme.io", "www-acme-io"},
		{"leading numbers", "123 Shop", "shop"},
		{"only numbers", "123456", ""},
		{"special chars", "Site! @#$ Blog", "site-blog"},
		{"consecutive spaces", "My  Site", "my-site"},
		{"trailing hyphen", "Site-", "site"},
		{"short name", "ab", "ab-site"},
		{"empty", "", ""},
		{"truncated", strings.Repeat("a", 70), strings.Repeat("a", 63)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.GenerateKey(tt.input))
		})
	}
}

func TestGeneratedKeysAreValid(t *testing.T) {
	for _, name := range []string{"My Site", "example.com", "Shop 42", "x"} {
		key := domain.GenerateKey(name)
		require.NotEmpty(t, key)
		assert.NoError(t, domain.ValidateKey(key), "key %q from %q", key, name)
	}
}

func TestKeyWithSuffix(t *testing.T) {
	assert.Equal(t, "shop", domain.KeyWithSuffix("shop", 1))
	assert.Equal(t, "shop-2", domain.KeyWithSuffix("shop", 2))

	long := domain.KeyWithSuffix(strings.Repeat("a", 63), 12)
	assert.Len(t, long, 63)
	assert.True(t, strings.HasSuffix(long, "-12"))
	assert.NoError(t, domain.ValidateKey(long))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, domain.ValidateEmail("owner@example.com"))
	assert.ErrorIs(t, domain.ValidateEmail("Owner <owner@example.com>"), domain.ErrInvalidEmail)
	assert.ErrorIs(t, domain.ValidateEmail("not-an-email"), domain.ErrInvalidEmail)
	assert.ErrorIs(t, domain.ValidateEmail(""), domain.ErrInvalidEmail)
	assert.Equal(t, "owner@example.com", domain.NormalizeEmail("  Owner@Example.COM "))
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, domain.ValidatePassword("short"), domain.ErrPasswordTooShort)
	assert.NoError(t, domain.ValidatePassword("correct horse"))
	assert.NoError(t, domain.ValidatePassword(strings.Repeat("x", 72)))
	assert.ErrorIs(t, domain.ValidatePassword(strings.Repeat("x", 73)), domain.ErrPasswordTooLong)

	// the limit counts bytes: 25 three-byte runes are 75 bytes
	assert.ErrorIs(t, domain.ValidatePassword(strings.Repeat("€", 25)), domain.ErrPasswordTooLong)
}

func TestWidgetSettingsValidate(t *testing.T) {
	settings := domain.DefaultWidgetSettings(uuid.New())
	require.NoError(t, settings.Validate())

	settings.PrimaryColor = "blue"
	assert.ErrorIs(t, settings.Validate(), domain.ErrInvalidColor)

	settings.PrimaryColor = "#AbCdEf"
	settings.AppName = "  "
	assert.ErrorIs(t, settings.Validate(), domain.ErrNameRequired)
}

func TestParseIntegrationKind(t *testing.T) {
	kind, err := domain.ParseIntegrationKind(" Slack ")
	require.NoError(t, err)
	assert.Equal(t, domain.IntegrationSlack, kind)

	_, err = domain.ParseIntegrationKind("email")
	assert.ErrorIs(t, err, domain.ErrInvalidKind)
}

func TestMaskTarget(t *testing.T) {
	masked := domain.MaskTarget("https://hooks.slack.com/services/T000/B000/XXXXabcd")
	assert.Equal(t, "https://hooks.slack.com/…abcd", masked)
	assert.NoError(t, domain.ValidateTarget("https://example.com/hook"))
	assert.ErrorIs(t, domain.ValidateTarget("http://example.com/hook"), domain.ErrInvalidTargetURL)
}
