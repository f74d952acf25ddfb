package publish

import (
	"regexp"
	"strconv"

	gerrors "github.com/sahitya-io/grantha/core/errors"
	"github.com/sahitya-io/grantha/core/proof"
)

var trailingDigitsRE = regexp.MustCompile(`[0-9]+$`)

// NextKey derives the successor of an ordering key by incrementing its
// trailing digit run: "1" -> "2", "1.1" -> "1.2", "p1" -> "p2". A key
// with no trailing digits gets "2" appended: "foo" -> "foo2".
func NextKey(key string) string {
	loc := trailingDigitsRE.FindStringIndex(key)
	if loc == nil {
		return key + "2"
	}
	n, err := strconv.Atoi(key[loc[0]:])
	if err != nil {
		// Digit runs longer than an int; treat as opaque.
		return key + "2"
	}
	return key[:loc[0]] + strconv.Itoa(n+1)
}

// keychain tracks the last ordering key seen per block type, so unkeyed
// blocks can continue their type's numbering, plus the running counter
// for speech wrappers.
type keychain struct {
	last     map[proof.BlockType]string
	speeches int
}

func newKeychain() *keychain {
	return &keychain{last: make(map[proof.BlockType]string)}
}

// next returns the ordering key for a block: its explicit key if it has
// one, otherwise the successor of the last key of the same type. A block
// with no explicit key and no predecessor has no derivable key; that is
// an error, never a silent "1".
func (k *keychain) next(b proof.Block, pageID int) (string, error) {
	if b.N != "" {
		k.last[b.Type] = b.N
		return b.N, nil
	}
	prev, ok := k.last[b.Type]
	if !ok {
		return "", &gerrors.OrderingKeyError{PageID: pageID, Tag: string(b.Type)}
	}
	key := NextKey(prev)
	k.last[b.Type] = key
	return key, nil
}

// record notes a block's explicit key without deriving one, used when
// the block's published slug comes from elsewhere (speech wrappers).
func (k *keychain) record(b proof.Block) {
	if b.N != "" {
		k.last[b.Type] = b.N
	}
}

// nextSpeech returns the slug for the next speech wrapper.
func (k *keychain) nextSpeech() string {
	k.speeches++
	return "sp" + strconv.Itoa(k.speeches)
}
