package dom

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_ResolveAbsentElement(t *testing.T) {
	p := NewPage("name")

	el := p.Element("missing")
	assert.Nil(t, el)

	// Absent elements fail on write, not on resolve
	assert.ErrorIs(t, el.SetText("x"), ErrNoElement)
	_, err := el.Value()
	assert.ErrorIs(t, err, ErrNoElement)
	assert.Equal(t, "", el.Text())
	assert.ErrorIs(t, p.Click("missing"), ErrNoElement)
}

func TestElement_ValueAndText(t *testing.T) {
	p := NewPage("name", "respHelloGet")

	require.NoError(t, p.SetValue("name", "Ana"))
	v, err := p.Value("name")
	require.NoError(t, err)
	assert.Equal(t, "Ana", v)

	require.NoError(t, p.Element("respHelloGet").SetText("first"))
	require.NoError(t, p.Element("respHelloGet").SetText("second"))
	assert.Equal(t, "second", p.Text("respHelloGet"))
}

func TestElement_ListenersRunInOrderAndRemove(t *testing.T) {
	p := NewPage("btn")
	el := p.Element("btn")

	var calls []string
	removeA, err := el.AddListener(func() { calls = append(calls, "a") })
	require.NoError(t, err)
	_, err = el.AddListener(func() { calls = append(calls, "b") })
	require.NoError(t, err)

	require.NoError(t, p.Click("btn"))
	assert.Equal(t, []string{"a", "b"}, calls)

	removeA()
	removeA() // second call is a no-op
	assert.Equal(t, 1, el.Listeners())

	require.NoError(t, p.Click("btn"))
	assert.Equal(t, []string{"a", "b", "b"}, calls)
}

func TestPage_OnChange(t *testing.T) {
	p := NewPage("name", "respTime")

	var mu sync.Mutex
	var changed []string
	p.OnChange(func(id string) {
		mu.Lock()
		changed = append(changed, id)
		mu.Unlock()
	})

	require.NoError(t, p.SetValue("name", "x"))
	require.NoError(t, p.Element("respTime").SetText("now"))

	assert.Equal(t, []string{"name", "respTime"}, changed)
}

func TestElement_ConcurrentWrites(t *testing.T) {
	p := NewPage("respTime")
	el := p.Element("respTime")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = el.SetText("x")
			_ = el.Text()
		}()
	}
	wg.Wait()

	assert.Equal(t, "x", el.Text())
}
