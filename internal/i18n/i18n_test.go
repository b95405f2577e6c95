package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"ja", "en"}, c.Locales())
}

func TestPrinter_Japanese(t *testing.T) {
	p := MustLoad().Printer("ja")
	assert.Equal(t, "ja", p.Locale())
	assert.Equal(t, "整数値を入力してください", p.Sprintf(KeyNotInteger))
	assert.Equal(t, "サインイン", p.Sprintf(KeySignIn))
	assert.Equal(t, "サインアウト", p.Sprintf(KeySignOut))
	assert.Equal(t, "Counter 3", p.Sprintf(KeyCounter, 3))
	assert.Equal(t, "ログインしています。ようこそ、taro さん", p.Sprintf(KeyGreeting, "taro"))
}

func TestPrinter_English(t *testing.T) {
	p := MustLoad().Printer("en-US")
	assert.Equal(t, "en", p.Locale())
	assert.Equal(t, "please enter an integer value", p.Sprintf(KeyNotInteger))
	assert.Equal(t, "You are signed in. Welcome, taro", p.Sprintf(KeyGreeting, "taro"))
}

func TestPrinter_FallbackToBase(t *testing.T) {
	c := MustLoad()
	for _, locale := range []string{"", "fr", "not a locale"} {
		p := c.Printer(locale)
		assert.Equal(t, "整数値を入力してください", p.Sprintf(KeyNotInteger), "locale %q", locale)
	}
}

func TestLoadFromFS_Errors(t *testing.T) {
	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{"no files", fstest.MapFS{}},
		{"missing base", fstest.MapFS{
			"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  a: b\n")},
		}},
		{"missing key", fstest.MapFS{
			"locales/ja.yaml": {Data: []byte("locale: ja\nmessages:\n  a: x\n  b: y\n")},
			"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  a: x\n")},
		}},
		{"extra key", fstest.MapFS{
			"locales/ja.yaml": {Data: []byte("locale: ja\nmessages:\n  a: x\n")},
			"locales/en.yaml": {Data: []byte("locale: en\nmessages:\n  a: x\n  z: y\n")},
		}},
		{"blank locale", fstest.MapFS{
			"locales/ja.yaml": {Data: []byte("messages:\n  a: x\n")},
		}},
		{"bad yaml", fstest.MapFS{
			"locales/ja.yaml": {Data: []byte("locale: [\n")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFS(tt.fs)
			assert.Error(t, err)
		})
	}
}
