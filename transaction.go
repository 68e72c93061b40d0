package gamesdk

import (
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/status"
	"github.com/opd-ai/gamesdk/textbuf"
)

// metadataEdit is either an upsert or a delete of one key.
type metadataEdit struct {
	value  []byte
	delete bool
}

// metadataEdits maps terminated keys to their pending edit. A later edit of
// the same key replaces the earlier one.
type metadataEdits map[string]metadataEdit

func (m metadataEdits) set(key, value string) {
	m[string(textbuf.Terminate(key))] = metadataEdit{value: textbuf.Terminate(value)}
}

func (m metadataEdits) remove(key string) {
	m[string(textbuf.Terminate(key))] = metadataEdit{delete: true}
}

// metadataWriter is the part of the native transactions that edits metadata.
type metadataWriter interface {
	SetMetadata(key, value []byte) status.Code
	DeleteMetadata(key []byte) status.Code
}

// replay applies every edit, stopping at the first failure. Keys are
// visited in map order.
func (m metadataEdits) replay(w metadataWriter) error {
	for k, edit := range m {
		key := []byte(k)
		if edit.delete {
			if err := resultError("delete metadata", w.DeleteMetadata(key)); err != nil {
				return err
			}
			continue
		}
		if err := resultError("set metadata", w.SetMetadata(key, edit.value)); err != nil {
			return err
		}
	}
	return nil
}

// LobbyTransaction collects lobby changes for CreateLobby and UpdateLobby.
// Nothing reaches the native library until the transaction is submitted,
// and a transaction can be submitted only once.
//
//	tx := gamesdk.NewLobbyTransaction().
//	    Kind(gamesdk.LobbyKindPublic).
//	    Capacity(4).
//	    AddMetadata("map", "harbor")
type LobbyTransaction struct {
	kind     *LobbyKind
	owner    *UserID
	capacity *uint32
	locked   *bool
	metadata metadataEdits
	consumed bool
}

// NewLobbyTransaction returns an empty transaction.
func NewLobbyTransaction() *LobbyTransaction {
	return &LobbyTransaction{metadata: make(metadataEdits)}
}

// Kind sets the lobby visibility.
func (tx *LobbyTransaction) Kind(kind LobbyKind) *LobbyTransaction {
	tx.kind = &kind
	return tx
}

// Owner transfers ownership. Only valid for updates.
func (tx *LobbyTransaction) Owner(id UserID) *LobbyTransaction {
	tx.owner = &id
	return tx
}

// Capacity sets the maximum number of members.
func (tx *LobbyTransaction) Capacity(capacity uint32) *LobbyTransaction {
	tx.capacity = &capacity
	return tx
}

// Locked sets whether new members may join.
func (tx *LobbyTransaction) Locked(locked bool) *LobbyTransaction {
	tx.locked = &locked
	return tx
}

// AddMetadata upserts a metadata key.
func (tx *LobbyTransaction) AddMetadata(key, value string) *LobbyTransaction {
	tx.metadata.set(key, value)
	return tx
}

// DeleteMetadata removes a metadata key.
func (tx *LobbyTransaction) DeleteMetadata(key string) *LobbyTransaction {
	tx.metadata.remove(key)
	return tx
}

func (tx *LobbyTransaction) consume() error {
	if tx.consumed {
		return ErrTransactionConsumed
	}
	tx.consumed = true
	return nil
}

// process replays the pending changes onto a native transaction. Changes
// made before a failure stay applied.
func (tx *LobbyTransaction) process(native interfaces.ILobbyTransaction) error {
	if tx.kind != nil {
		if err := resultError("set lobby type", native.SetType(int32(*tx.kind))); err != nil {
			return err
		}
	}
	if tx.owner != nil {
		if err := resultError("set lobby owner", native.SetOwner(int64(*tx.owner))); err != nil {
			return err
		}
	}
	if tx.capacity != nil {
		if err := resultError("set lobby capacity", native.SetCapacity(*tx.capacity)); err != nil {
			return err
		}
	}
	if tx.locked != nil {
		if err := resultError("set lobby locked", native.SetLocked(*tx.locked)); err != nil {
			return err
		}
	}
	return tx.metadata.replay(native)
}

// LobbyMemberTransaction collects member metadata changes for UpdateMember.
type LobbyMemberTransaction struct {
	metadata metadataEdits
	consumed bool
}

// NewLobbyMemberTransaction returns an empty member transaction.
func NewLobbyMemberTransaction() *LobbyMemberTransaction {
	return &LobbyMemberTransaction{metadata: make(metadataEdits)}
}

// AddMetadata upserts a member metadata key.
func (tx *LobbyMemberTransaction) AddMetadata(key, value string) *LobbyMemberTransaction {
	tx.metadata.set(key, value)
	return tx
}

// DeleteMetadata removes a member metadata key.
func (tx *LobbyMemberTransaction) DeleteMetadata(key string) *LobbyMemberTransaction {
	tx.metadata.remove(key)
	return tx
}

func (tx *LobbyMemberTransaction) consume() error {
	if tx.consumed {
		return ErrTransactionConsumed
	}
	tx.consumed = true
	return nil
}

func (tx *LobbyMemberTransaction) process(native interfaces.ILobbyMemberTransaction) error {
	return tx.metadata.replay(native)
}
