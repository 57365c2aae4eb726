package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id int64, studentID, ticket, name, secret string) *StudentRecord {
	return &StudentRecord{ID: id, StudentID: studentID, Ticket: ticket, Name: name, Secret: secret}
}

func TestStudentRecordKind(t *testing.T) {
	r := record(1, "2020001", "T100", "Alice", "123456")

	assert.Equal(t, AccountByStudentID, r.Kind("2020001"))
	assert.Equal(t, AccountByTicket, r.Kind("T100"))
	assert.Equal(t, AccountByName, r.Kind("Alice"))
	assert.Equal(t, AccountKind(0), r.Kind("Bob"))
	assert.Equal(t, AccountKind(0), r.Kind(""))
	assert.Equal(t, "ticket", AccountByTicket.String())
}

func TestResolveAccount(t *testing.T) {
	t.Run("student id with correct secret", func(t *testing.T) {
		alice := record(1, "2020001", "T100", "Alice", "123456")

		got, ok := ResolveAccount([]*StudentRecord{alice}, "2020001", "123456")
		require.True(t, ok)
		assert.Same(t, alice, got)
	})

	t.Run("wrong secret is not found", func(t *testing.T) {
		alice := record(1, "2020001", "T100", "Alice", "123456")

		_, ok := ResolveAccount([]*StudentRecord{alice}, "2020001", "000000")
		assert.False(t, ok)
	})

	t.Run("student id beats name regardless of row order", func(t *testing.T) {
		// A student literally named like another's student id.
		byName := record(1, "2020009", "T900", "2020001", "123456")
		byID := record(7, "2020001", "T100", "Alice", "123456")

		got, ok := ResolveAccount([]*StudentRecord{byName, byID}, "2020001", "123456")
		require.True(t, ok)
		assert.Same(t, byID, got)
	})

	t.Run("same name falls back to lowest id whose secret verifies", func(t *testing.T) {
		first := record(3, "2020003", "T3", "Li Hua", "111111")
		second := record(5, "2020005", "T5", "Li Hua", "222222")
		third := record(9, "2020009", "T9", "Li Hua", "222222")

		got, ok := ResolveAccount([]*StudentRecord{third, second, first}, "Li Hua", "222222")
		require.True(t, ok)
		assert.Same(t, second, got)

		got, ok = ResolveAccount([]*StudentRecord{third, second, first}, "Li Hua", "111111")
		require.True(t, ok)
		assert.Same(t, first, got)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		candidates := []*StudentRecord{
			record(2, "2020002", "A", "Bob", "123456"),
			record(1, "2020001", "B", "Bob", "123456"),
		}
		for i := 0; i < 5; i++ {
			got, ok := ResolveAccount(candidates, "Bob", "123456")
			require.True(t, ok)
			assert.Equal(t, int64(1), got.ID)
		}
	})

	t.Run("non matching candidates are ignored", func(t *testing.T) {
		other := record(1, "2020002", "T2", "Bob", "123456")
		_, ok := ResolveAccount([]*StudentRecord{other, nil}, "2020001", "123456")
		assert.False(t, ok)
	})
}

func TestFirstBoundTo(t *testing.T) {
	uid := int32(42)
	other := int32(43)
	mine := record(4, "2020004", "T4", "Li Hua", "x")
	mine.UID = &uid
	theirs := record(2, "2020002", "T2", "Li Hua", "x")
	theirs.UID = &other

	got, ok := FirstBoundTo([]*StudentRecord{theirs, mine}, "Li Hua", 42)
	require.True(t, ok)
	assert.Same(t, mine, got)

	_, ok = FirstBoundTo([]*StudentRecord{theirs, mine}, "Li Hua", 44)
	assert.False(t, ok)
}

func TestProjections(t *testing.T) {
	contact := json.RawMessage(`{"qq":"10001"}`)
	r := &StudentRecord{
		StudentID: "2020001",
		Name:      "Alice",
		Secret:    "123456",
		College:   "CS",
		City:      "Shanghai",
		Building:  "南1号楼",
		Room:      101,
		Bed:       "101-1",
		Contact:   contact,
	}

	t.Run("hidden student does not share contact", func(t *testing.T) {
		assert.Nil(t, r.Mate().Contact)
		assert.Nil(t, r.Familiar().Contact)
	})

	t.Run("visible student shares contact", func(t *testing.T) {
		visible := *r
		visible.Visible = true
		assert.JSONEq(t, string(contact), string(visible.Mate().Contact))
		assert.Equal(t, "Shanghai", visible.Familiar().City)
	})

	t.Run("views never carry the secret", func(t *testing.T) {
		for _, v := range []any{r.Basic(), r.Mate(), r.Familiar()} {
			raw, err := json.Marshal(v)
			require.NoError(t, err)
			assert.NotContains(t, string(raw), "123456")
		}
	})
}
