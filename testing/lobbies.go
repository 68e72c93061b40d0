package testing

import (
	"cmp"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/limits"
	"github.com/opd-ai/gamesdk/status"
	"github.com/opd-ai/gamesdk/textbuf"
	"github.com/sirupsen/logrus"
)

const (
	defaultLobbyType     int32  = 1 // private
	defaultLobbyCapacity uint32 = 16

	// search comparison and cast values of the native enums
	cmpLessThanOrEqual    int32 = -2
	cmpLessThan           int32 = -1
	cmpEqual              int32 = 0
	cmpGreaterThan        int32 = 1
	cmpGreaterThanOrEqual int32 = 2
	cmpNotEqual           int32 = 3
	castNumber            int32 = 2
)

type simLobby struct {
	lobby          interfaces.Lobby
	metadata       map[string]string
	members        []int64
	memberMetadata map[int64]map[string]string
	voice          bool
	network        bool
	channels       map[uint8]bool
}

func newSimLobby(id, ownerID int64) *simLobby {
	l := &simLobby{
		metadata:       make(map[string]string),
		memberMetadata: make(map[int64]map[string]string),
		channels:       make(map[uint8]bool),
	}
	l.lobby.ID = id
	l.lobby.OwnerID = ownerID
	l.lobby.Type = defaultLobbyType
	l.lobby.Capacity = defaultLobbyCapacity
	put(l.lobby.Secret[:], fmt.Sprintf("%d:sim-secret-%d", id, id))
	return l
}

func (l *simLobby) addMember(userID int64) {
	if slices.Contains(l.members, userID) {
		return
	}
	l.members = append(l.members, userID)
	l.memberMetadata[userID] = make(map[string]string)
}

func (l *simLobby) removeMember(userID int64) {
	l.members = slices.DeleteFunc(l.members, func(m int64) bool { return m == userID })
	delete(l.memberMetadata, userID)
}

func (l *simLobby) isMember(userID int64) bool {
	return slices.Contains(l.members, userID)
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

// TxCall records one call made on a simulated transaction or search query
type TxCall struct {
	Op     string
	Key    string
	Value  string
	Int    int64
	Bool   bool
	Result status.Code
}

// decodeText checks the NUL-terminated contract and decodes the text.
func decodeText(b []byte) (string, bool) {
	if !textbuf.IsTerminated(b) {
		return "", false
	}
	return textbuf.Decode(b), true
}

// SimulatedTransaction implements interfaces.ILobbyTransaction and records every call
type SimulatedTransaction struct {
	core    *SimulatedCore
	LobbyID int64
	calls   []TxCall
}

// Calls returns the recorded calls in order
func (t *SimulatedTransaction) Calls() []TxCall {
	t.core.mu.Lock()
	defer t.core.mu.Unlock()
	return slices.Clone(t.calls)
}

func (t *SimulatedTransaction) call(c TxCall) status.Code {
	t.core.mu.Lock()
	defer t.core.mu.Unlock()
	if code := t.core.injectedLocked("LobbyTransaction." + c.Op); code != status.Ok {
		c.Result = code
	}
	t.calls = append(t.calls, c)
	return c.Result
}

// SetType implements ILobbyTransaction.SetType
func (t *SimulatedTransaction) SetType(lobbyType int32) status.Code {
	if lobbyType != 1 && lobbyType != 2 {
		return t.call(TxCall{Op: "SetType", Int: int64(lobbyType)}.withResult(status.InvalidPayload))
	}
	return t.call(TxCall{Op: "SetType", Int: int64(lobbyType)})
}

// SetOwner implements ILobbyTransaction.SetOwner
func (t *SimulatedTransaction) SetOwner(ownerID int64) status.Code {
	return t.call(TxCall{Op: "SetOwner", Int: ownerID})
}

// SetCapacity implements ILobbyTransaction.SetCapacity
func (t *SimulatedTransaction) SetCapacity(capacity uint32) status.Code {
	return t.call(TxCall{Op: "SetCapacity", Int: int64(capacity)})
}

// SetMetadata implements ILobbyTransaction.SetMetadata
func (t *SimulatedTransaction) SetMetadata(key, value []byte) status.Code {
	return t.call(metadataCall("SetMetadata", key, value))
}

// DeleteMetadata implements ILobbyTransaction.DeleteMetadata
func (t *SimulatedTransaction) DeleteMetadata(key []byte) status.Code {
	return t.call(metadataCall("DeleteMetadata", key, []byte{0}))
}

// SetLocked implements ILobbyTransaction.SetLocked
func (t *SimulatedTransaction) SetLocked(locked bool) status.Code {
	return t.call(TxCall{Op: "SetLocked", Bool: locked})
}

// withResult pre-sets a validation failure; injected failures still win.
func (c TxCall) withResult(code status.Code) TxCall {
	c.Result = code
	return c
}

func metadataCall(op string, key, value []byte) TxCall {
	c := TxCall{Op: op}
	k, okKey := decodeText(key)
	v, okValue := decodeText(value)
	c.Key, c.Value = k, v
	switch {
	case !okKey || !okValue:
		c.Result = status.InvalidPayload
	case limits.ValidateMetadataKey([]byte(k)) != nil, limits.ValidateMetadataValue([]byte(v)) != nil:
		c.Result = status.InvalidPayload
	}
	return c
}

// apply replays the successful calls onto l. c.mu must be held.
func (t *SimulatedTransaction) apply(l *simLobby) {
	for _, c := range t.calls {
		if c.Result != status.Ok {
			continue
		}
		switch c.Op {
		case "SetType":
			l.lobby.Type = int32(c.Int)
		case "SetOwner":
			l.lobby.OwnerID = c.Int
		case "SetCapacity":
			l.lobby.Capacity = uint32(c.Int)
		case "SetLocked":
			l.lobby.Locked = c.Bool
		case "SetMetadata":
			l.metadata[c.Key] = c.Value
		case "DeleteMetadata":
			delete(l.metadata, c.Key)
		}
	}
}

// firstFailure returns the first failed call result. A well-behaved caller
// never submits such a transaction.
func firstFailure(calls []TxCall) status.Code {
	for _, c := range calls {
		if c.Result != status.Ok {
			return c.Result
		}
	}
	return status.Ok
}

// SimulatedMemberTransaction implements interfaces.ILobbyMemberTransaction
type SimulatedMemberTransaction struct {
	core    *SimulatedCore
	LobbyID int64
	UserID  int64
	calls   []TxCall
}

// Calls returns the recorded calls in order
func (t *SimulatedMemberTransaction) Calls() []TxCall {
	t.core.mu.Lock()
	defer t.core.mu.Unlock()
	return slices.Clone(t.calls)
}

func (t *SimulatedMemberTransaction) call(c TxCall) status.Code {
	t.core.mu.Lock()
	defer t.core.mu.Unlock()
	if code := t.core.injectedLocked("LobbyMemberTransaction." + c.Op); code != status.Ok {
		c.Result = code
	}
	t.calls = append(t.calls, c)
	return c.Result
}

// SetMetadata implements ILobbyMemberTransaction.SetMetadata
func (t *SimulatedMemberTransaction) SetMetadata(key, value []byte) status.Code {
	return t.call(metadataCall("SetMetadata", key, value))
}

// DeleteMetadata implements ILobbyMemberTransaction.DeleteMetadata
func (t *SimulatedMemberTransaction) DeleteMetadata(key []byte) status.Code {
	return t.call(metadataCall("DeleteMetadata", key, []byte{0}))
}

// SimulatedSearchQuery implements interfaces.ILobbySearchQuery
type SimulatedSearchQuery struct {
	core  *SimulatedCore
	calls []TxCall
}

type searchFilter struct {
	key        string
	comparison int32
	cast       int32
	value      string
}

// Calls returns the recorded calls in order
func (q *SimulatedSearchQuery) Calls() []TxCall {
	q.core.mu.Lock()
	defer q.core.mu.Unlock()
	return slices.Clone(q.calls)
}

func (q *SimulatedSearchQuery) call(c TxCall) status.Code {
	q.core.mu.Lock()
	defer q.core.mu.Unlock()
	if code := q.core.injectedLocked("LobbySearchQuery." + c.Op); code != status.Ok {
		c.Result = code
	}
	q.calls = append(q.calls, c)
	return c.Result
}

// Filter implements ILobbySearchQuery.Filter. Comparison and cast travel in
// Int and Bool of the recorded call: Int = comparison, Bool = numeric cast.
func (q *SimulatedSearchQuery) Filter(key []byte, comparison, cast int32, value []byte) status.Code {
	c := metadataCall("Filter", key, value)
	c.Int = int64(comparison)
	c.Bool = cast == castNumber
	if comparison < cmpLessThanOrEqual || comparison > cmpNotEqual {
		c.Result = status.InvalidPayload
	}
	return q.call(c)
}

// Sort implements ILobbySearchQuery.Sort
func (q *SimulatedSearchQuery) Sort(key []byte, cast int32, value []byte) status.Code {
	c := metadataCall("Sort", key, value)
	c.Bool = cast == castNumber
	return q.call(c)
}

// Limit implements ILobbySearchQuery.Limit
func (q *SimulatedSearchQuery) Limit(limit uint32) status.Code {
	return q.call(TxCall{Op: "Limit", Int: int64(limit)})
}

// Distance implements ILobbySearchQuery.Distance
func (q *SimulatedSearchQuery) Distance(distance int32) status.Code {
	return q.call(TxCall{Op: "Distance", Int: int64(distance)})
}

// run evaluates the query against the simulated lobbies. c.mu must be held.
func (q *SimulatedSearchQuery) run(lobbies map[int64]*simLobby) []int64 {
	var filters []searchFilter
	var sorts []searchFilter
	limit := -1
	for _, c := range q.calls {
		if c.Result != status.Ok {
			continue
		}
		cast := int32(1)
		if c.Bool {
			cast = castNumber
		}
		switch c.Op {
		case "Filter":
			filters = append(filters, searchFilter{c.Key, int32(c.Int), cast, c.Value})
		case "Sort":
			sorts = append(sorts, searchFilter{key: c.Key, cast: cast, value: c.Value})
		case "Limit":
			limit = int(c.Int)
		}
	}

	ids := slices.Sorted(maps.Keys(lobbies))
	ids = slices.DeleteFunc(ids, func(id int64) bool {
		l := lobbies[id]
		for _, f := range filters {
			if !f.matches(l) {
				return true
			}
		}
		return false
	})

	for i := len(sorts) - 1; i >= 0; i-- {
		s := sorts[i]
		slices.SortStableFunc(ids, func(a, b int64) int {
			return cmp.Compare(s.distance(lobbies[a]), s.distance(lobbies[b]))
		})
	}

	if limit >= 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

func lobbyField(l *simLobby, key string) (string, bool) {
	if name, ok := strings.CutPrefix(key, "metadata."); ok {
		v, found := l.metadata[name]
		return v, found
	}
	switch key {
	case "owner_id":
		return strconv.FormatInt(l.lobby.OwnerID, 10), true
	case "capacity":
		return strconv.FormatUint(uint64(l.lobby.Capacity), 10), true
	case "slots":
		return strconv.Itoa(int(l.lobby.Capacity) - len(l.members)), true
	case "member_count":
		return strconv.Itoa(len(l.members)), true
	}
	return "", false
}

func (f searchFilter) matches(l *simLobby) bool {
	field, ok := lobbyField(l, f.key)
	if !ok {
		return false
	}

	var r int
	if f.cast == castNumber {
		a, errA := strconv.ParseFloat(field, 64)
		b, errB := strconv.ParseFloat(f.value, 64)
		if errA != nil || errB != nil {
			return false
		}
		r = cmp.Compare(a, b)
	} else {
		r = strings.Compare(field, f.value)
	}

	switch f.comparison {
	case cmpLessThanOrEqual:
		return r <= 0
	case cmpLessThan:
		return r < 0
	case cmpEqual:
		return r == 0
	case cmpGreaterThan:
		return r > 0
	case cmpGreaterThanOrEqual:
		return r >= 0
	case cmpNotEqual:
		return r != 0
	}
	return false
}

// distance orders lobbies by how near the field is to the sort value.
func (f searchFilter) distance(l *simLobby) float64 {
	field, ok := lobbyField(l, f.key)
	if !ok {
		return math.Inf(1)
	}
	if f.cast == castNumber {
		a, errA := strconv.ParseFloat(field, 64)
		b, errB := strconv.ParseFloat(f.value, 64)
		if errA != nil || errB != nil {
			return math.Inf(1)
		}
		return math.Abs(a - b)
	}
	if field == f.value {
		return 0
	}
	return 1
}

// simLobbyManager implements interfaces.ILobbyManager
type simLobbyManager struct {
	c *SimulatedCore
}

func (m *simLobbyManager) lobbyLocked(id int64) (*simLobby, status.Code) {
	l, ok := m.c.lobbies[id]
	if !ok {
		return nil, status.NotFound
	}
	return l, status.Ok
}

// GetLobbyCreateTransaction implements ILobbyManager.GetLobbyCreateTransaction
func (m *simLobbyManager) GetLobbyCreateTransaction() (interfaces.ILobbyTransaction, status.Code) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetLobbyCreateTransaction"); code != status.Ok {
		return nil, code
	}
	tx := &SimulatedTransaction{core: m.c}
	m.c.transactions = append(m.c.transactions, tx)
	return tx, status.Ok
}

// GetLobbyUpdateTransaction implements ILobbyManager.GetLobbyUpdateTransaction
func (m *simLobbyManager) GetLobbyUpdateTransaction(lobbyID int64) (interfaces.ILobbyTransaction, status.Code) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetLobbyUpdateTransaction"); code != status.Ok {
		return nil, code
	}
	if _, code := m.lobbyLocked(lobbyID); code != status.Ok {
		return nil, code
	}
	tx := &SimulatedTransaction{core: m.c, LobbyID: lobbyID}
	m.c.transactions = append(m.c.transactions, tx)
	return tx, status.Ok
}

// GetMemberUpdateTransaction implements ILobbyManager.GetMemberUpdateTransaction
func (m *simLobbyManager) GetMemberUpdateTransaction(lobbyID, userID int64) (interfaces.ILobbyMemberTransaction, status.Code) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetMemberUpdateTransaction"); code != status.Ok {
		return nil, code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return nil, code
	}
	if !l.isMember(userID) {
		return nil, status.NotFound
	}
	tx := &SimulatedMemberTransaction{core: m.c, LobbyID: lobbyID, UserID: userID}
	m.c.memberTransactions = append(m.c.memberTransactions, tx)
	return tx, status.Ok
}

// CreateLobby implements ILobbyManager.CreateLobby
func (m *simLobbyManager) CreateLobby(tx interfaces.ILobbyTransaction, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked("LobbyManager.CreateLobby"); code != status.Ok {
		queueValueLocked(m.c, callbackData, code, interfaces.Lobby{})
		return
	}
	stx := tx.(*SimulatedTransaction)
	if code := firstFailure(stx.calls); code != status.Ok {
		queueValueLocked(m.c, callbackData, code, interfaces.Lobby{})
		return
	}

	id := m.c.nextLobbyID
	m.c.nextLobbyID++
	l := newSimLobby(id, m.c.currentUser.ID)
	stx.apply(l)
	l.addMember(m.c.currentUser.ID)
	m.c.lobbies[id] = l

	logrus.WithFields(logrus.Fields{
		"function": "SimulatedLobbyManager.CreateLobby",
		"lobby_id": id,
		"calls":    len(stx.calls),
	}).Info("Simulating lobby creation")

	queueValueLocked(m.c, callbackData, status.Ok, l.lobby)
}

// UpdateLobby implements ILobbyManager.UpdateLobby
func (m *simLobbyManager) UpdateLobby(lobbyID int64, tx interfaces.ILobbyTransaction, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked("LobbyManager.UpdateLobby"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	if l.lobby.OwnerID != m.c.currentUser.ID {
		m.c.queueResultLocked(callbackData, status.InvalidPermissions)
		return
	}
	stx := tx.(*SimulatedTransaction)
	if code := firstFailure(stx.calls); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	stx.apply(l)
	m.c.queueResultLocked(callbackData, status.Ok)
	m.c.queueEventLocked(interfaces.EventLobbyUpdate, nil, uintptr(lobbyID))
}

// DeleteLobby implements ILobbyManager.DeleteLobby
func (m *simLobbyManager) DeleteLobby(lobbyID int64, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked("LobbyManager.DeleteLobby"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	if l.lobby.OwnerID != m.c.currentUser.ID {
		m.c.queueResultLocked(callbackData, status.InvalidPermissions)
		return
	}
	delete(m.c.lobbies, lobbyID)
	m.c.queueResultLocked(callbackData, status.Ok)
	m.c.queueEventLocked(interfaces.EventLobbyDelete, nil, uintptr(lobbyID), 0)
}

func (m *simLobbyManager) connectLocked(l *simLobby, callbackData uintptr) {
	switch {
	case l.isMember(m.c.currentUser.ID):
		queueValueLocked(m.c, callbackData, status.Ok, l.lobby)
		return
	case l.lobby.Locked:
		queueValueLocked(m.c, callbackData, status.InvalidPermissions, interfaces.Lobby{})
		return
	case uint32(len(l.members)) >= l.lobby.Capacity:
		queueValueLocked(m.c, callbackData, status.LobbyFull, interfaces.Lobby{})
		return
	}
	l.addMember(m.c.currentUser.ID)
	queueValueLocked(m.c, callbackData, status.Ok, l.lobby)
	m.c.queueEventLocked(interfaces.EventMemberConnect, nil, uintptr(l.lobby.ID), uintptr(m.c.currentUser.ID))
}

// ConnectLobby implements ILobbyManager.ConnectLobby
func (m *simLobbyManager) ConnectLobby(lobbyID int64, secret []byte, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked("LobbyManager.ConnectLobby"); code != status.Ok {
		queueValueLocked(m.c, callbackData, code, interfaces.Lobby{})
		return
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		queueValueLocked(m.c, callbackData, code, interfaces.Lobby{})
		return
	}
	s, ok := decodeText(secret)
	if !ok || limits.ValidateLobbySecret([]byte(s)) != nil || s != textbuf.Decode(l.lobby.Secret[:]) {
		queueValueLocked(m.c, callbackData, status.InvalidLobbySecret, interfaces.Lobby{})
		return
	}
	m.connectLocked(l, callbackData)
}

// ConnectLobbyWithActivitySecret implements ILobbyManager.ConnectLobbyWithActivitySecret
func (m *simLobbyManager) ConnectLobbyWithActivitySecret(secret []byte, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked("LobbyManager.ConnectLobbyWithActivitySecret"); code != status.Ok {
		queueValueLocked(m.c, callbackData, code, interfaces.Lobby{})
		return
	}
	s, ok := decodeText(secret)
	if ok {
		for _, id := range slices.Sorted(maps.Keys(m.c.lobbies)) {
			l := m.c.lobbies[id]
			if activitySecret(l) == s {
				m.connectLocked(l, callbackData)
				return
			}
		}
	}
	queueValueLocked(m.c, callbackData, status.InvalidLobbySecret, interfaces.Lobby{})
}

func activitySecret(l *simLobby) string {
	return "activity:" + textbuf.Decode(l.lobby.Secret[:])
}

// DisconnectLobby implements ILobbyManager.DisconnectLobby
func (m *simLobbyManager) DisconnectLobby(lobbyID int64, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked("LobbyManager.DisconnectLobby"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	if !l.isMember(m.c.currentUser.ID) {
		m.c.queueResultLocked(callbackData, status.NotFound)
		return
	}
	l.removeMember(m.c.currentUser.ID)
	m.c.queueResultLocked(callbackData, status.Ok)
	m.c.queueEventLocked(interfaces.EventMemberDisconnect, nil, uintptr(lobbyID), uintptr(m.c.currentUser.ID))
}

// GetLobby implements ILobbyManager.GetLobby
func (m *simLobbyManager) GetLobby(lobbyID int64, out *interfaces.Lobby) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetLobby"); code != status.Ok {
		return code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return code
	}
	*out = l.lobby
	return status.Ok
}

// GetLobbyActivitySecret implements ILobbyManager.GetLobbyActivitySecret
func (m *simLobbyManager) GetLobbyActivitySecret(lobbyID int64, out *interfaces.LobbySecret) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetLobbyActivitySecret"); code != status.Ok {
		return code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return code
	}
	if textbuf.Put(out[:], activitySecret(l)) != nil {
		return status.InsufficientBuffer
	}
	return status.Ok
}

func metadataValue(md map[string]string, key []byte, out *interfaces.MetadataValue) status.Code {
	k, ok := decodeText(key)
	if !ok {
		return status.InvalidPayload
	}
	v, found := md[k]
	if !found {
		return status.NotFound
	}
	if textbuf.Put(out[:], v) != nil {
		return status.InsufficientBuffer
	}
	return status.Ok
}

func metadataKey(md map[string]string, index int32, out *interfaces.MetadataKey) status.Code {
	keys := sortedKeys(md)
	if index < 0 || int(index) >= len(keys) {
		return status.NotFound
	}
	if textbuf.Put(out[:], keys[index]) != nil {
		return status.InsufficientBuffer
	}
	return status.Ok
}

// GetLobbyMetadataValue implements ILobbyManager.GetLobbyMetadataValue
func (m *simLobbyManager) GetLobbyMetadataValue(lobbyID int64, key []byte, out *interfaces.MetadataValue) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetLobbyMetadataValue"); code != status.Ok {
		return code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return code
	}
	return metadataValue(l.metadata, key, out)
}

// GetLobbyMetadataKey implements ILobbyManager.GetLobbyMetadataKey
func (m *simLobbyManager) GetLobbyMetadataKey(lobbyID int64, index int32, out *interfaces.MetadataKey) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetLobbyMetadataKey"); code != status.Ok {
		return code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return code
	}
	return metadataKey(l.metadata, index, out)
}

// LobbyMetadataCount implements ILobbyManager.LobbyMetadataCount
func (m *simLobbyManager) LobbyMetadataCount(lobbyID int64, out *int32) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.LobbyMetadataCount"); code != status.Ok {
		return code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return code
	}
	*out = int32(len(l.metadata))
	return status.Ok
}

// MemberCount implements ILobbyManager.MemberCount
func (m *simLobbyManager) MemberCount(lobbyID int64, out *int32) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.MemberCount"); code != status.Ok {
		return code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return code
	}
	*out = int32(len(l.members))
	return status.Ok
}

// GetMemberUserID implements ILobbyManager.GetMemberUserID
func (m *simLobbyManager) GetMemberUserID(lobbyID int64, index int32, out *int64) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetMemberUserID"); code != status.Ok {
		return code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return code
	}
	if index < 0 || int(index) >= len(l.members) {
		return status.NotFound
	}
	*out = l.members[index]
	return status.Ok
}

// GetMemberUser implements ILobbyManager.GetMemberUser
func (m *simLobbyManager) GetMemberUser(lobbyID, userID int64, out *interfaces.User) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetMemberUser"); code != status.Ok {
		return code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return code
	}
	u, known := m.c.users[userID]
	if !l.isMember(userID) || !known {
		return status.NotFound
	}
	*out = u
	return status.Ok
}

func (m *simLobbyManager) memberMetadataLocked(lobbyID, userID int64) (map[string]string, status.Code) {
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return nil, code
	}
	md, ok := l.memberMetadata[userID]
	if !ok {
		return nil, status.NotFound
	}
	return md, status.Ok
}

// GetMemberMetadataValue implements ILobbyManager.GetMemberMetadataValue
func (m *simLobbyManager) GetMemberMetadataValue(lobbyID, userID int64, key []byte, out *interfaces.MetadataValue) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetMemberMetadataValue"); code != status.Ok {
		return code
	}
	md, code := m.memberMetadataLocked(lobbyID, userID)
	if code != status.Ok {
		return code
	}
	return metadataValue(md, key, out)
}

// GetMemberMetadataKey implements ILobbyManager.GetMemberMetadataKey
func (m *simLobbyManager) GetMemberMetadataKey(lobbyID, userID int64, index int32, out *interfaces.MetadataKey) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetMemberMetadataKey"); code != status.Ok {
		return code
	}
	md, code := m.memberMetadataLocked(lobbyID, userID)
	if code != status.Ok {
		return code
	}
	return metadataKey(md, index, out)
}

// MemberMetadataCount implements ILobbyManager.MemberMetadataCount
func (m *simLobbyManager) MemberMetadataCount(lobbyID, userID int64, out *int32) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.MemberMetadataCount"); code != status.Ok {
		return code
	}
	md, code := m.memberMetadataLocked(lobbyID, userID)
	if code != status.Ok {
		return code
	}
	*out = int32(len(md))
	return status.Ok
}

// UpdateMember implements ILobbyManager.UpdateMember
func (m *simLobbyManager) UpdateMember(lobbyID, userID int64, tx interfaces.ILobbyMemberTransaction, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked("LobbyManager.UpdateMember"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	md, code := m.memberMetadataLocked(lobbyID, userID)
	if code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	mtx := tx.(*SimulatedMemberTransaction)
	if code := firstFailure(mtx.calls); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	for _, c := range mtx.calls {
		switch c.Op {
		case "SetMetadata":
			md[c.Key] = c.Value
		case "DeleteMetadata":
			delete(md, c.Key)
		}
	}
	m.c.queueResultLocked(callbackData, status.Ok)
	m.c.queueEventLocked(interfaces.EventMemberUpdate, nil, uintptr(lobbyID), uintptr(userID))
}

// SendLobbyMessage implements ILobbyManager.SendLobbyMessage
func (m *simLobbyManager) SendLobbyMessage(lobbyID int64, data []byte, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked("LobbyManager.SendLobbyMessage"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	if !l.isMember(m.c.currentUser.ID) {
		m.c.queueResultLocked(callbackData, status.InvalidPermissions)
		return
	}
	m.c.lobbyMessages = append(m.c.lobbyMessages, Message{
		LobbyID: lobbyID,
		UserID:  m.c.currentUser.ID,
		Data:    slices.Clone(data),
	})
	m.c.queueResultLocked(callbackData, status.Ok)
}

// GetSearchQuery implements ILobbyManager.GetSearchQuery
func (m *simLobbyManager) GetSearchQuery() (interfaces.ILobbySearchQuery, status.Code) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetSearchQuery"); code != status.Ok {
		return nil, code
	}
	q := &SimulatedSearchQuery{core: m.c}
	m.c.queries = append(m.c.queries, q)
	return q, status.Ok
}

// Search implements ILobbyManager.Search
func (m *simLobbyManager) Search(query interfaces.ILobbySearchQuery, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked("LobbyManager.Search"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	q := query.(*SimulatedSearchQuery)
	if code := firstFailure(q.calls); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	m.c.searchResult = q.run(m.c.lobbies)

	logrus.WithFields(logrus.Fields{
		"function": "SimulatedLobbyManager.Search",
		"results":  len(m.c.searchResult),
	}).Info("Simulating lobby search")

	m.c.queueResultLocked(callbackData, status.Ok)
}

// LobbyCount implements ILobbyManager.LobbyCount
func (m *simLobbyManager) LobbyCount(out *int32) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	m.c.calls = append(m.c.calls, "LobbyManager.LobbyCount")
	*out = int32(len(m.c.searchResult))
}

// GetLobbyID implements ILobbyManager.GetLobbyID
func (m *simLobbyManager) GetLobbyID(index int32, out *int64) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("LobbyManager.GetLobbyID"); code != status.Ok {
		return code
	}
	if index < 0 || int(index) >= len(m.c.searchResult) {
		return status.NotFound
	}
	*out = m.c.searchResult[index]
	return status.Ok
}

func (m *simLobbyManager) setVoice(op string, lobbyID int64, on bool, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()

	if code := m.c.injectedLocked(op); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	if !l.isMember(m.c.currentUser.ID) {
		m.c.queueResultLocked(callbackData, status.InvalidPermissions)
		return
	}
	l.voice = on
	m.c.queueResultLocked(callbackData, status.Ok)
}

// ConnectVoice implements ILobbyManager.ConnectVoice
func (m *simLobbyManager) ConnectVoice(lobbyID int64, callbackData uintptr) {
	m.setVoice("LobbyManager.ConnectVoice", lobbyID, true, callbackData)
}

// DisconnectVoice implements ILobbyManager.DisconnectVoice
func (m *simLobbyManager) DisconnectVoice(lobbyID int64, callbackData uintptr) {
	m.setVoice("LobbyManager.DisconnectVoice", lobbyID, false, callbackData)
}

func (m *simLobbyManager) memberLobbyLocked(op string, lobbyID int64) (*simLobby, status.Code) {
	if code := m.c.injectedLocked(op); code != status.Ok {
		return nil, code
	}
	l, code := m.lobbyLocked(lobbyID)
	if code != status.Ok {
		return nil, code
	}
	if !l.isMember(m.c.currentUser.ID) {
		return nil, status.InvalidPermissions
	}
	return l, status.Ok
}

// ConnectNetwork implements ILobbyManager.ConnectNetwork
func (m *simLobbyManager) ConnectNetwork(lobbyID int64) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	l, code := m.memberLobbyLocked("LobbyManager.ConnectNetwork", lobbyID)
	if code != status.Ok {
		return code
	}
	l.network = true
	return status.Ok
}

// DisconnectNetwork implements ILobbyManager.DisconnectNetwork
func (m *simLobbyManager) DisconnectNetwork(lobbyID int64) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	l, code := m.memberLobbyLocked("LobbyManager.DisconnectNetwork", lobbyID)
	if code != status.Ok {
		return code
	}
	l.network = false
	clear(l.channels)
	return status.Ok
}

// FlushNetwork implements ILobbyManager.FlushNetwork
func (m *simLobbyManager) FlushNetwork() status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	return m.c.injectedLocked("LobbyManager.FlushNetwork")
}

// OpenNetworkChannel implements ILobbyManager.OpenNetworkChannel
func (m *simLobbyManager) OpenNetworkChannel(lobbyID int64, channelID uint8, reliable bool) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	l, code := m.memberLobbyLocked("LobbyManager.OpenNetworkChannel", lobbyID)
	if code != status.Ok {
		return code
	}
	if !l.network {
		return status.InvalidChannel
	}
	l.channels[channelID] = reliable
	return status.Ok
}

// SendNetworkMessage implements ILobbyManager.SendNetworkMessage
func (m *simLobbyManager) SendNetworkMessage(lobbyID, userID int64, channelID uint8, data []byte) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	l, code := m.memberLobbyLocked("LobbyManager.SendNetworkMessage", lobbyID)
	if code != status.Ok {
		return code
	}
	if _, open := l.channels[channelID]; !open {
		return status.InvalidChannel
	}
	if !l.isMember(userID) {
		return status.NotFound
	}
	m.c.networkMessages = append(m.c.networkMessages, Message{
		LobbyID:   lobbyID,
		UserID:    userID,
		ChannelID: channelID,
		Data:      slices.Clone(data),
	})
	return status.Ok
}
