package filters

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcilerDraftVsApplied(t *testing.T) {
	r := NewReconciler(State{})
	assert.NotEmpty(t, r.ID())

	r.ToggleMember(Departments, "Sales")
	r.SetRange(Start, "2024-01-01")

	assert.Equal(t, 2, r.ActiveFilterCount())
	assert.True(t, r.Applied().IsEmpty(), "edits stay in the draft until commit")
	assert.True(t, r.Pending())

	q, changed := r.Commit()
	assert.True(t, changed)
	assert.Equal(t, []string{"Sales"}, q.Departments)
	assert.Equal(t, "2024-01-01", q.StartDate)
	assert.Equal(t, r.Draft(), r.Applied())
	assert.False(t, r.Pending())

	_, changed = r.Commit()
	assert.False(t, changed, "committing an unchanged draft needs no refetch")
}

func TestReconcilerToggleTwice(t *testing.T) {
	r := NewReconciler(State{})
	r.ToggleMember(Departments, "Sales")
	r.ToggleMember(Departments, "Sales")
	assert.Equal(t, State{}, r.Draft())
}

func TestReconcilerReplaceMembersDedupes(t *testing.T) {
	r := NewReconciler(State{})
	r.ReplaceMembers(Departments, []string{"Sales", "Ops", "Sales"})
	assert.Equal(t, []string{"Sales", "Ops"}, r.Draft().Members(Departments))

	r.ReplaceMembers(Departments, nil)
	assert.Empty(t, r.Draft().Members(Departments))
}

func TestReconcilerSetSingle(t *testing.T) {
	r := NewReconciler(State{})
	r.SetSingle(Genders, "Female")
	r.SetSingle(Genders, "Male")
	assert.Equal(t, []string{"Male"}, r.Draft().Genders)

	r.SetSingle(Genders, All)
	assert.Nil(t, r.Draft().Genders)
}

func TestReconcilerResetAndSync(t *testing.T) {
	r := NewReconciler(State{}.Toggle(Locations, "Pune"))
	r.ToggleMember(Locations, "Delhi")
	assert.Equal(t, []string{"Pune", "Delhi"}, r.Draft().Locations)

	r.SyncFromApplied()
	assert.Equal(t, []string{"Pune"}, r.Draft().Locations)

	r.Reset()
	assert.True(t, r.Draft().IsEmpty())
	assert.False(t, r.Applied().IsEmpty(), "reset touches only the draft")

	q, changed := r.Commit()
	assert.True(t, changed)
	assert.True(t, q.IsEmpty())
}

func TestReconcilerReplaceApplied(t *testing.T) {
	r := NewReconciler(State{})
	r.ToggleMember(Designations, "Engineer")

	external := State{}.Toggle(Genders, "Female")
	r.ReplaceApplied(external)

	assert.Equal(t, external, r.Applied())
	assert.Equal(t, external, r.Draft(), "draft is reseeded from applied")
}

func TestReconcilerSnapshotsAreCopies(t *testing.T) {
	r := NewReconciler(State{})
	r.ToggleMember(Departments, "Sales")

	snap := r.Draft()
	snap.Departments[0] = "Mutated"
	assert.Equal(t, []string{"Sales"}, r.Draft().Departments)
}

func TestReconcilerConcurrentToggles(t *testing.T) {
	r := NewReconciler(State{})
	values := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, v := range values {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			r.ToggleMember(Locations, v)
		}(v)
	}
	wg.Wait()

	require.Len(t, r.Draft().Locations, len(values))
	assert.ElementsMatch(t, values, r.Draft().Locations)
}
