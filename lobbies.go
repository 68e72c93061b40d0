package gamesdk

import (
	"fmt"

	"github.com/opd-ai/gamesdk/collection"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/textbuf"
)

// Metadata is one key/value pair of lobby or member metadata.
type Metadata struct {
	Key   string
	Value string
}

func convertLobby(p uintptr) Lobby {
	return lobbyFromNative(at[interfaces.Lobby](p))
}

func (d *Discord) lobbyManager() (interfaces.ILobbyManager, error) {
	core, err := d.nativeCore()
	if err != nil {
		return nil, err
	}
	return core.LobbyManager(), nil
}

// CreateLobby creates a lobby from tx. The current user becomes its owner
// and first member. A nil tx creates a lobby with default properties.
func (d *Discord) CreateLobby(tx *LobbyTransaction, cb func(Lobby, error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	if tx == nil {
		tx = NewLobbyTransaction()
	}
	if err := tx.consume(); err != nil {
		return err
	}
	native, code := mgr.GetLobbyCreateTransaction()
	if err := resultError("get lobby create transaction", code); err != nil {
		return err
	}
	if err := tx.process(native); err != nil {
		return fmt.Errorf("create lobby: %w", err)
	}
	return submitValue(d, "CreateLobby", convertLobby, cb, func(data uintptr) {
		mgr.CreateLobby(native, data)
	})
}

// UpdateLobby applies tx to a lobby owned by the current user.
func (d *Discord) UpdateLobby(id LobbyID, tx *LobbyTransaction, cb func(error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	if tx == nil {
		tx = NewLobbyTransaction()
	}
	if err := tx.consume(); err != nil {
		return err
	}
	native, code := mgr.GetLobbyUpdateTransaction(int64(id))
	if err := resultError("get lobby update transaction", code); err != nil {
		return err
	}
	if err := tx.process(native); err != nil {
		return fmt.Errorf("update lobby %d: %w", id, err)
	}
	return d.submitResult("UpdateLobby", cb, func(data uintptr) {
		mgr.UpdateLobby(int64(id), native, data)
	})
}

// DeleteLobby deletes a lobby owned by the current user.
func (d *Discord) DeleteLobby(id LobbyID, cb func(error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return d.submitResult("DeleteLobby", cb, func(data uintptr) {
		mgr.DeleteLobby(int64(id), data)
	})
}

// ConnectLobby joins a lobby with its secret.
func (d *Discord) ConnectLobby(id LobbyID, secret string, cb func(Lobby, error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	s := textbuf.Terminate(secret)
	return submitValue(d, "ConnectLobby", convertLobby, cb, func(data uintptr) {
		mgr.ConnectLobby(int64(id), s, data)
	})
}

// ConnectLobbyWithActivitySecret joins the lobby behind an activity join
// secret, as received from an invite.
func (d *Discord) ConnectLobbyWithActivitySecret(secret string, cb func(Lobby, error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	s := textbuf.Terminate(secret)
	return submitValue(d, "ConnectLobbyWithActivitySecret", convertLobby, cb, func(data uintptr) {
		mgr.ConnectLobbyWithActivitySecret(s, data)
	})
}

// DisconnectLobby leaves a lobby.
func (d *Discord) DisconnectLobby(id LobbyID, cb func(error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return d.submitResult("DisconnectLobby", cb, func(data uintptr) {
		mgr.DisconnectLobby(int64(id), data)
	})
}

// Lobby returns a lobby the current user is connected to.
func (d *Discord) Lobby(id LobbyID) (Lobby, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return Lobby{}, err
	}
	var l interfaces.Lobby
	if err := resultError("get lobby", mgr.GetLobby(int64(id), &l)); err != nil {
		return Lobby{}, err
	}
	return lobbyFromNative(&l), nil
}

// LobbyActivitySecret returns the secret others use to join through an
// activity invite.
func (d *Discord) LobbyActivitySecret(id LobbyID) (string, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return "", err
	}
	var secret interfaces.LobbySecret
	if err := resultError("get lobby activity secret", mgr.GetLobbyActivitySecret(int64(id), &secret)); err != nil {
		return "", err
	}
	return textbuf.Decode(secret[:]), nil
}

// LobbyMetadata returns the value stored under key.
func (d *Discord) LobbyMetadata(id LobbyID, key string) (string, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return "", err
	}
	k := textbuf.Terminate(key)
	var value interfaces.MetadataValue
	if err := resultError("get lobby metadata", mgr.GetLobbyMetadataValue(int64(id), k, &value)); err != nil {
		return "", err
	}
	return textbuf.Decode(value[:]), nil
}

// LobbyMetadataCount returns the number of metadata keys of a lobby.
func (d *Discord) LobbyMetadataCount(id LobbyID) (int32, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return 0, err
	}
	var count int32
	if err := resultError("lobby metadata count", mgr.LobbyMetadataCount(int64(id), &count)); err != nil {
		return 0, err
	}
	return count, nil
}

// LobbyMetadataAt returns the metadata pair at index.
func (d *Discord) LobbyMetadataAt(id LobbyID, index int32) (Metadata, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return Metadata{}, err
	}
	var key interfaces.MetadataKey
	if err := resultError("get lobby metadata key", mgr.GetLobbyMetadataKey(int64(id), index, &key)); err != nil {
		return Metadata{}, err
	}
	var value interfaces.MetadataValue
	if err := resultError("get lobby metadata", mgr.GetLobbyMetadataValue(int64(id), key[:], &value)); err != nil {
		return Metadata{}, err
	}
	return Metadata{Key: textbuf.Decode(key[:]), Value: textbuf.Decode(value[:])}, nil
}

// IterLobbyMetadata returns a lazy view over a lobby's metadata.
func (d *Discord) IterLobbyMetadata(id LobbyID) (*collection.Collection[Metadata], error) {
	return collection.FromCount(
		func() (int32, error) { return d.LobbyMetadataCount(id) },
		func(i int32) (Metadata, error) { return d.LobbyMetadataAt(id, i) },
	)
}

// UpdateMember applies tx to the metadata of a lobby member. Members can
// only update their own metadata, the owner can update anyone's.
func (d *Discord) UpdateMember(lobby LobbyID, user UserID, tx *LobbyMemberTransaction, cb func(error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	if tx == nil {
		tx = NewLobbyMemberTransaction()
	}
	if err := tx.consume(); err != nil {
		return err
	}
	native, code := mgr.GetMemberUpdateTransaction(int64(lobby), int64(user))
	if err := resultError("get member update transaction", code); err != nil {
		return err
	}
	if err := tx.process(native); err != nil {
		return fmt.Errorf("update member %d in lobby %d: %w", user, lobby, err)
	}
	return d.submitResult("UpdateMember", cb, func(data uintptr) {
		mgr.UpdateMember(int64(lobby), int64(user), native, data)
	})
}

// LobbyMemberCount returns the number of members in a lobby.
func (d *Discord) LobbyMemberCount(lobby LobbyID) (int32, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return 0, err
	}
	var count int32
	if err := resultError("member count", mgr.MemberCount(int64(lobby), &count)); err != nil {
		return 0, err
	}
	return count, nil
}

// LobbyMemberIDAt returns the user id of the member at index.
func (d *Discord) LobbyMemberIDAt(lobby LobbyID, index int32) (UserID, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := resultError("get member user id", mgr.GetMemberUserID(int64(lobby), index, &id)); err != nil {
		return 0, err
	}
	return UserID(id), nil
}

// IterLobbyMemberIDs returns a lazy view over the member ids of a lobby.
func (d *Discord) IterLobbyMemberIDs(lobby LobbyID) (*collection.Collection[UserID], error) {
	return collection.FromCount(
		func() (int32, error) { return d.LobbyMemberCount(lobby) },
		func(i int32) (UserID, error) { return d.LobbyMemberIDAt(lobby, i) },
	)
}

// LobbyMemberUser returns the user behind a lobby member.
func (d *Discord) LobbyMemberUser(lobby LobbyID, user UserID) (User, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return User{}, err
	}
	var u interfaces.User
	if err := resultError("get member user", mgr.GetMemberUser(int64(lobby), int64(user), &u)); err != nil {
		return User{}, err
	}
	return userFromNative(&u), nil
}

// LobbyMemberMetadata returns the member metadata stored under key.
func (d *Discord) LobbyMemberMetadata(lobby LobbyID, user UserID, key string) (string, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return "", err
	}
	k := textbuf.Terminate(key)
	var value interfaces.MetadataValue
	if err := resultError("get member metadata", mgr.GetMemberMetadataValue(int64(lobby), int64(user), k, &value)); err != nil {
		return "", err
	}
	return textbuf.Decode(value[:]), nil
}

// LobbyMemberMetadataCount returns the number of metadata keys of a member.
func (d *Discord) LobbyMemberMetadataCount(lobby LobbyID, user UserID) (int32, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return 0, err
	}
	var count int32
	if err := resultError("member metadata count", mgr.MemberMetadataCount(int64(lobby), int64(user), &count)); err != nil {
		return 0, err
	}
	return count, nil
}

// LobbyMemberMetadataAt returns the member metadata pair at index.
func (d *Discord) LobbyMemberMetadataAt(lobby LobbyID, user UserID, index int32) (Metadata, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return Metadata{}, err
	}
	var key interfaces.MetadataKey
	if err := resultError("get member metadata key", mgr.GetMemberMetadataKey(int64(lobby), int64(user), index, &key)); err != nil {
		return Metadata{}, err
	}
	var value interfaces.MetadataValue
	if err := resultError("get member metadata", mgr.GetMemberMetadataValue(int64(lobby), int64(user), key[:], &value)); err != nil {
		return Metadata{}, err
	}
	return Metadata{Key: textbuf.Decode(key[:]), Value: textbuf.Decode(value[:])}, nil
}

// IterLobbyMemberMetadata returns a lazy view over a member's metadata.
func (d *Discord) IterLobbyMemberMetadata(lobby LobbyID, user UserID) (*collection.Collection[Metadata], error) {
	return collection.FromCount(
		func() (int32, error) { return d.LobbyMemberMetadataCount(lobby, user) },
		func(i int32) (Metadata, error) { return d.LobbyMemberMetadataAt(lobby, user, i) },
	)
}

// SendLobbyMessage sends data to every member of a lobby.
func (d *Discord) SendLobbyMessage(lobby LobbyID, data []byte, cb func(error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return d.submitResult("SendLobbyMessage", cb, func(token uintptr) {
		mgr.SendLobbyMessage(int64(lobby), data, token)
	})
}

// LobbySearch runs query. Results are read with LobbyCount, LobbyIDAt and
// IterLobbies once cb reports success. A nil query matches every lobby.
func (d *Discord) LobbySearch(query *SearchQuery, cb func(error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	if query == nil {
		query = NewSearchQuery()
	}
	if err := query.consume(); err != nil {
		return err
	}
	native, code := mgr.GetSearchQuery()
	if err := resultError("get search query", code); err != nil {
		return err
	}
	if err := query.process(native); err != nil {
		return fmt.Errorf("lobby search: %w", err)
	}
	return d.submitResult("LobbySearch", cb, func(data uintptr) {
		mgr.Search(native, data)
	})
}

// LobbyCount returns the number of lobbies found by the last search.
func (d *Discord) LobbyCount() (int32, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return 0, err
	}
	var count int32
	mgr.LobbyCount(&count)
	return count, nil
}

// LobbyIDAt returns the id of the search result at index.
func (d *Discord) LobbyIDAt(index int32) (LobbyID, error) {
	mgr, err := d.lobbyManager()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := resultError("get lobby id", mgr.GetLobbyID(index, &id)); err != nil {
		return 0, err
	}
	return LobbyID(id), nil
}

// IterLobbies returns a lazy view over the ids found by the last search.
func (d *Discord) IterLobbies() (*collection.Collection[LobbyID], error) {
	return collection.FromCount(d.LobbyCount, d.LobbyIDAt)
}

// ConnectLobbyVoice joins the voice channel of a lobby.
func (d *Discord) ConnectLobbyVoice(lobby LobbyID, cb func(error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return d.submitResult("ConnectLobbyVoice", cb, func(data uintptr) {
		mgr.ConnectVoice(int64(lobby), data)
	})
}

// DisconnectLobbyVoice leaves the voice channel of a lobby.
func (d *Discord) DisconnectLobbyVoice(lobby LobbyID, cb func(error)) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return d.submitResult("DisconnectLobbyVoice", cb, func(data uintptr) {
		mgr.DisconnectVoice(int64(lobby), data)
	})
}

// ConnectLobbyNetwork joins the networking layer of a lobby. Channels must
// be opened before messages can be sent.
func (d *Discord) ConnectLobbyNetwork(lobby LobbyID) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return resultError("connect lobby network", mgr.ConnectNetwork(int64(lobby)))
}

// DisconnectLobbyNetwork leaves the networking layer of a lobby.
func (d *Discord) DisconnectLobbyNetwork(lobby LobbyID) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return resultError("disconnect lobby network", mgr.DisconnectNetwork(int64(lobby)))
}

// FlushLobbyNetwork sends pending network messages. Call it after the
// messages of a frame have been queued.
func (d *Discord) FlushLobbyNetwork() error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return resultError("flush lobby network", mgr.FlushNetwork())
}

// OpenLobbyNetworkChannel opens a channel to every member of a lobby.
func (d *Discord) OpenLobbyNetworkChannel(lobby LobbyID, channel NetworkChannelID, reliable bool) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return resultError("open lobby network channel", mgr.OpenNetworkChannel(int64(lobby), uint8(channel), reliable))
}

// SendLobbyNetworkMessage queues data for one member on an open channel.
func (d *Discord) SendLobbyNetworkMessage(lobby LobbyID, user UserID, channel NetworkChannelID, data []byte) error {
	mgr, err := d.lobbyManager()
	if err != nil {
		return err
	}
	return resultError("send lobby network message", mgr.SendNetworkMessage(int64(lobby), int64(user), uint8(channel), data))
}
