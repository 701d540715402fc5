package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cogniscript/server/internal/domain"
)

func newTestRepo(t *testing.T) ConversationRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Conversation{}, &domain.ConversationEntry{}))
	return NewConversationRepository(db)
}

func createConversation(t *testing.T, repo ConversationRepository, id string) *domain.Conversation {
	t.Helper()
	conv, err := repo.Create(context.Background(), &domain.Conversation{
		ConversationID: id,
		UserID:         "user-1",
		Title:          "Test Chat",
	})
	require.NoError(t, err)
	return conv
}

func TestCreateAndFind(t *testing.T) {
	repo := newTestRepo(t)
	createConversation(t, repo, "conv-1")

	conv, err := repo.FindByConversationID(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", conv.UserID)
	assert.Equal(t, "Test Chat", conv.Title)
	assert.Equal(t, "active", conv.Status)
}

func TestFindMissingConversation(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByConversationID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Create(context.Background(), &domain.Conversation{})
	assert.Error(t, err)

	_, err = repo.Create(context.Background(), nil)
	assert.Error(t, err)
}

func TestAppendAndGetHistoryChronological(t *testing.T) {
	repo := newTestRepo(t)
	createConversation(t, repo, "conv-1")

	base := time.Now().UTC().Add(-time.Hour)
	for i, q := range []string{"first", "second", "third"} {
		_, err := repo.AppendEntry(context.Background(), &domain.ConversationEntry{
			ConversationID: "conv-1",
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
			UserText:       q,
		})
		require.NoError(t, err)
	}

	history, err := repo.GetHistory(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].UserText)
	assert.Equal(t, "second", history[1].UserText)
	assert.Equal(t, "third", history[2].UserText)
}

func TestUpdateLastAssistantWritesNewestEntry(t *testing.T) {
	repo := newTestRepo(t)
	createConversation(t, repo, "conv-1")

	base := time.Now().UTC().Add(-time.Hour)
	_, err := repo.AppendEntry(context.Background(), &domain.ConversationEntry{
		ConversationID: "conv-1", Timestamp: base, UserText: "old question",
	})
	require.NoError(t, err)
	_, err = repo.AppendEntry(context.Background(), &domain.ConversationEntry{
		ConversationID: "conv-1", Timestamp: base.Add(time.Minute), UserText: "new question",
	})
	require.NoError(t, err)

	citations := []domain.Citation{{CitationID: "auto_citation_0", Source: "a.pdf", Text: "excerpt"}}
	require.NoError(t, repo.UpdateLastAssistant(context.Background(), "conv-1", "the reply", citations))

	history, err := repo.GetHistory(context.Background(), "conv-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	// the reply lands in the newest entry, never a historical one
	assert.Empty(t, history[0].AssistantText)
	assert.Equal(t, "the reply", history[1].AssistantText)
	require.Len(t, history[1].Citations, 1)
	assert.Equal(t, "a.pdf", history[1].Citations[0].Source)
}

func TestUpdateLastAssistantRejectsEmptyHistory(t *testing.T) {
	repo := newTestRepo(t)
	createConversation(t, repo, "conv-1")

	err := repo.UpdateLastAssistant(context.Background(), "conv-1", "reply", nil)
	assert.ErrorIs(t, err, ErrNoEntryToUpdate)
}

func TestUpdateLastAssistantRejectsSecondWrite(t *testing.T) {
	repo := newTestRepo(t)
	createConversation(t, repo, "conv-1")

	_, err := repo.AppendEntry(context.Background(), &domain.ConversationEntry{
		ConversationID: "conv-1", UserText: "question",
	})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateLastAssistant(context.Background(), "conv-1", "first reply", nil))

	err = repo.UpdateLastAssistant(context.Background(), "conv-1", "second reply", nil)
	assert.ErrorIs(t, err, ErrNoEntryToUpdate)

	history, err := repo.GetHistory(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Equal(t, "first reply", history[0].AssistantText)
}

func TestDeleteCascadesHistory(t *testing.T) {
	repo := newTestRepo(t)
	createConversation(t, repo, "conv-1")

	_, err := repo.AppendEntry(context.Background(), &domain.ConversationEntry{
		ConversationID: "conv-1", UserText: "question",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), "conv-1"))

	_, err = repo.FindByConversationID(context.Background(), "conv-1")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	history, err := repo.GetHistory(context.Background(), "conv-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDeleteMissingConversation(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.Delete(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestFindByUserIDOrdersByActivity(t *testing.T) {
	repo := newTestRepo(t)
	createConversation(t, repo, "conv-1")
	createConversation(t, repo, "conv-2")

	convs, err := repo.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, "conv-2", convs[0].ConversationID)
}
