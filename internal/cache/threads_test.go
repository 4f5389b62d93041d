package cache

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func root(id string, sec int) models.Comment {
	return models.Comment{ID: id, ListID: "l1", Body: id, CreatedAt: at(sec)}
}

func reply(id, parent string, sec int) models.Comment {
	c := root(id, sec)
	c.ParentID = &parent
	return c
}

func threadIDs(t *Threads) map[string][]string {
	out := map[string][]string{}
	for _, r := range t.Roots() {
		replies := []string{}
		for _, rep := range r.Replies {
			replies = append(replies, rep.ID)
		}
		out[r.ID] = replies
	}
	return out
}

func TestBuildThreads(t *testing.T) {
	rows := []models.Comment{
		root("r1", 1),
		reply("a", "r1", 2),
		root("r2", 3),
		reply("b", "a", 4),
		reply("orphan", "missing", 5),
	}

	th := BuildThreads(rows)

	assert.Equal(t, map[string][]string{"r1": {"a", "b"}, "r2": {}}, threadIDs(th))
	assert.Equal(t, 4, th.Len())

	rootID, ok := th.RootOf("b")
	require.True(t, ok)
	assert.Equal(t, "r1", rootID)
}

func TestThreads_ReplyNeverBecomesRoot(t *testing.T) {
	th := BuildThreads([]models.Comment{root("r1", 1), reply("a", "r1", 2)})

	assert.False(t, th.InsertRoot(root("a", 3), true))
	assert.Len(t, th.Roots(), 1)
}

func TestThreads_InsertReplyDedup(t *testing.T) {
	th := BuildThreads([]models.Comment{root("r1", 1)})

	assert.True(t, th.InsertReply(reply("a", "r1", 2)))
	assert.False(t, th.InsertReply(reply("a", "r1", 2)))

	newer := reply("a", "r1", 2)
	newer.UpdatedAt = at(10)
	newer.Body = "edited"
	assert.True(t, th.InsertReply(newer))

	got, ok := th.Get("a")
	require.True(t, ok)
	assert.Equal(t, "edited", got.Body)
	assert.Equal(t, map[string][]string{"r1": {"a"}}, threadIDs(th))
}

func TestThreads_InsertRootKeepsReplies(t *testing.T) {
	th := BuildThreads([]models.Comment{root("r1", 1), reply("a", "r1", 2)})

	updated := root("r1", 1)
	updated.UpdatedAt = at(9)
	updated.Body = "new body"
	assert.True(t, th.InsertRoot(updated, false))

	got, _ := th.Get("r1")
	assert.Equal(t, "new body", got.Body)
	assert.Len(t, got.Replies, 1)
}

func TestThreads_RemoveByID(t *testing.T) {
	th := BuildThreads([]models.Comment{
		root("r1", 1), reply("a", "r1", 2), reply("b", "r1", 3), root("r2", 4),
	})

	assert.True(t, th.RemoveByID("a"))
	assert.False(t, th.RemoveByID("a"))
	assert.Equal(t, map[string][]string{"r1": {"b"}, "r2": {}}, threadIDs(th))

	assert.True(t, th.RemoveByID("r1"))
	assert.False(t, th.Contains("b"))
	assert.Equal(t, map[string][]string{"r2": {}}, threadIDs(th))
	assert.Equal(t, 1, th.Len())
}

func TestThreads_UpdateByID(t *testing.T) {
	th := BuildThreads([]models.Comment{root("r1", 1), reply("a", "r1", 2)})

	assert.True(t, th.UpdateByID("a", func(c *models.Comment) { c.Body = "patched" }))
	assert.True(t, th.UpdateByID("r1", func(c *models.Comment) { c.Replies = nil; c.Body = "root" }))
	assert.False(t, th.UpdateByID("missing", func(c *models.Comment) {}))

	r1, _ := th.Get("r1")
	assert.Equal(t, "root", r1.Body)
	require.Len(t, r1.Replies, 1, "patching a root must not drop its replies")
	assert.Equal(t, "patched", r1.Replies[0].Body)
}

func TestThreads_ReplacePromotesTemporaryID(t *testing.T) {
	th := BuildThreads([]models.Comment{root("r1", 1), root("tmp-1", 2), root("r3", 3)})

	server := root("srv-1", 2)
	assert.True(t, th.Replace("tmp-1", server))

	var order []string
	for _, r := range th.Roots() {
		order = append(order, r.ID)
	}
	assert.Equal(t, []string{"r1", "srv-1", "r3"}, order)
	assert.False(t, th.Contains("tmp-1"))
}

func TestThreads_ReplaceDropsTemporaryWhenServerIDPresent(t *testing.T) {
	th := BuildThreads([]models.Comment{root("r1", 1), reply("tmp-1", "r1", 2)})
	th.InsertReply(reply("srv-1", "r1", 2))

	assert.True(t, th.Replace("tmp-1", reply("srv-1", "r1", 2)))
	assert.Equal(t, map[string][]string{"r1": {"srv-1"}}, threadIDs(th))
}

func TestThreads_ReplaceReply(t *testing.T) {
	th := BuildThreads([]models.Comment{root("r1", 1), reply("tmp-1", "r1", 2)})

	assert.True(t, th.Replace("tmp-1", reply("srv-1", "r1", 2)))
	assert.False(t, th.Replace("tmp-1", reply("srv-2", "r1", 2)))

	rootID, ok := th.RootOf("srv-1")
	require.True(t, ok)
	assert.Equal(t, "r1", rootID)
}

func TestThreads_CloneIsIndependent(t *testing.T) {
	th := BuildThreads([]models.Comment{root("r1", 1), reply("a", "r1", 2)})
	clone := th.Clone()

	clone.RemoveByID("a")
	clone.UpdateByID("r1", func(c *models.Comment) { c.Body = "changed" })
	clone.InsertReply(reply("b", "r1", time.Now().Second()))

	assert.Equal(t, map[string][]string{"r1": {"a"}}, threadIDs(th))
	r1, _ := th.Get("r1")
	assert.Equal(t, "r1", r1.Body)
}
