package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/perigee/recall/core"
)

// Key prefixes for different data types
const (
	conversationPrefix = "convrec"
	messagePrefix      = "msgrec"
	messageConvPrefix  = "msgconvidx"
	uploadPrefix       = "uplrec"
	failurePrefix      = "failrec"
	failureSeqName     = "failrecseq"
)

// makeConversationKey generates a key for a conversation by external id.
func makeConversationKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", conversationPrefix, id))
}

// makeMessageKey generates a key for a message by content-hash key.
func makeMessageKey(key core.ID) []byte {
	prefix := messagePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	// BigEndian so lexicographic sort matches numeric sort
	binary.BigEndian.PutUint64(buf[offset:], uint64(key))
	return buf
}

// makeMessageConvKey generates a composite key for the conversation index.
// Format: prefix:conversationID:timestamp:key
func makeMessageConvKey(conversationID string, timestampMicro int64, key core.ID) []byte {
	prefix := fmt.Sprintf("%s:%s:", messageConvPrefix, conversationID)
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestampMicro))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(key))
	return buf
}

// makePartialMessageConvKey generates the iteration prefix for one
// conversation's index entries.
func makePartialMessageConvKey(conversationID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", messageConvPrefix, conversationID))
}

// makeUploadKey generates a key for an upload job by id.
func makeUploadKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", uploadPrefix, id))
}

// makeFailureKey generates a composite key for a failure record.
// Format: prefix:uploadID:seq
func makeFailureKey(uploadID string, seq uint64) []byte {
	prefix := fmt.Sprintf("%s:%s:", failurePrefix, uploadID)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}

// makePartialFailureKey generates the iteration prefix for one upload's
// failure records.
func makePartialFailureKey(uploadID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", failurePrefix, uploadID))
}
