package session

import (
	"testing"

	"github.com/Hemu21/crowdfunding/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePrefs struct {
	values map[string]string
}

func newFakePrefs() *fakePrefs {
	return &fakePrefs{values: make(map[string]string)}
}

func (f *fakePrefs) Get(key string) (string, error) {
	return f.values[key], nil
}

func (f *fakePrefs) Put(key, value string) error {
	f.values[key] = value
	return nil
}

func TestNewDefaultsToLight(t *testing.T) {
	s := New(nil, nil, newFakePrefs())
	assert.Equal(t, model.ThemeLight, s.Theme())
	assert.Empty(t, s.Account())
}

func TestNewLoadsStoredTheme(t *testing.T) {
	prefs := newFakePrefs()
	prefs.values[model.PreferenceKeyTheme] = model.ThemeDark

	s := New(nil, nil, prefs)
	assert.Equal(t, model.ThemeDark, s.Theme())
}

func TestToggleThemePersists(t *testing.T) {
	prefs := newFakePrefs()
	s := New(nil, nil, prefs)

	assert.Equal(t, model.ThemeDark, s.ToggleTheme())
	assert.Equal(t, model.ThemeDark, prefs.values[model.PreferenceKeyTheme])

	assert.Equal(t, model.ThemeLight, s.ToggleTheme())
	assert.Equal(t, model.ThemeLight, prefs.values[model.PreferenceKeyTheme])
}

func TestToggleThemePublishesEvent(t *testing.T) {
	s := New(nil, nil, newFakePrefs())

	ch, cancel := s.Subscribe()
	defer cancel()

	s.ToggleTheme()

	event := <-ch
	assert.Equal(t, EventThemeChanged, event.Kind)
	assert.Equal(t, model.ThemeDark, event.Value)
}

func TestOnAccountChange(t *testing.T) {
	s := New(nil, nil, newFakePrefs())

	ch, cancel := s.Subscribe()
	defer cancel()

	s.OnAccountChange("0xAAAA")
	assert.Equal(t, "0xAAAA", s.Account())

	event := <-ch
	assert.Equal(t, EventAccountChanged, event.Kind)
	assert.Equal(t, "0xAAAA", event.Value)

	// 账户消失以空字符串呈现
	s.OnAccountChange("")
	event = <-ch
	assert.Equal(t, EventAccountChanged, event.Kind)
	assert.Empty(t, event.Value)
}

func TestOnAccountChangeNoOpWhenSame(t *testing.T) {
	s := New(nil, nil, newFakePrefs())

	ch, cancel := s.Subscribe()
	defer cancel()

	s.OnAccountChange("")
	select {
	case event := <-ch:
		t.Fatalf("unexpected event: %+v", event)
	default:
	}
}

func TestSubscribeCancel(t *testing.T) {
	s := New(nil, nil, newFakePrefs())

	ch, cancel := s.Subscribe()
	cancel()

	_, open := <-ch
	require.False(t, open)

	// 取消后不再收到事件, 重复取消安全
	s.ToggleTheme()
	cancel()
}

func TestSubscribeIndependentSubscribers(t *testing.T) {
	s := New(nil, nil, newFakePrefs())

	ch1, cancel1 := s.Subscribe()
	ch2, cancel2 := s.Subscribe()
	defer cancel2()

	cancel1()
	s.OnAccountChange("0xAAAA")

	event := <-ch2
	assert.Equal(t, EventAccountChanged, event.Kind)

	_, open := <-ch1
	assert.False(t, open)
}
