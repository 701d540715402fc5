// File: internal/services/vectordb/names.go
package vectordb

import (
	"strings"

	"github.com/google/uuid"
)

// CollectionSuffix marks collections owned by this service; listing filters
// on it so foreign collections in a shared Qdrant instance are left alone.
const CollectionSuffix = "_docs"

// CollectionName derives the collection for a conversation. Every
// non-alphanumeric rune becomes an underscore, so the mapping is
// deterministic and filesystem/identifier safe. Conversation ids are
// globally unique, which keeps sanitized names collision free.
func CollectionName(conversationID string) string {
	var b strings.Builder
	b.Grow(len(conversationID) + len(CollectionSuffix))
	for _, r := range conversationID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	b.WriteString(CollectionSuffix)
	return b.String()
}

// conversationIDFromCollection recovers the sanitized conversation id from a
// collection name. The sanitization is lossy, so this is only used for
// display in listings.
func conversationIDFromCollection(name string) string {
	return strings.TrimSuffix(name, CollectionSuffix)
}

// pointID maps a chunk id onto a deterministic UUID. Qdrant point ids must
// be UUIDs or integers, so the `<docId>_<ordinal>` chunk id rides in the
// payload and this derived UUID addresses the point.
func pointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(chunkID)).String()
}
