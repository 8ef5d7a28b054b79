package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedContainsDefaultPersona(t *testing.T) {
	store := NewMemoryStore(Seed())

	p, ok := store.FindByID(DefaultID)
	require.True(t, ok)
	assert.NotEmpty(t, p.Instruction)
	assert.Contains(t, p.Instruction, "sức khỏe")
}

func TestListReturnsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())

	items := store.List()
	items[0].Name = "changed"

	p, _ := store.FindByID(DefaultID)
	assert.NotEqual(t, "changed", p.Name)
}

func TestFindByIDMissing(t *testing.T) {
	store := NewMemoryStore(nil)

	_, ok := store.FindByID(DefaultID)
	assert.False(t, ok)
}

func TestDuplicateIDKeepsFirst(t *testing.T) {
	store := NewMemoryStore([]Persona{
		{ID: "a", Name: "first"},
		{ID: "b", Name: "second"},
		{ID: "a", Name: "shadowed"},
	})

	items := store.List()
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Name)
	assert.Equal(t, "b", items[1].ID)
}

func TestLookup(t *testing.T) {
	store := NewMemoryStore(Seed())

	p, err := Lookup(store, DefaultID)
	require.NoError(t, err)
	assert.Equal(t, DefaultID, p.ID)

	_, err = Lookup(store, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
