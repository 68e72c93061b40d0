//go:build (linux || darwin) && (amd64 || arm64)

package real

import (
	"runtime"

	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/status"
)

// Function table slots, in header order.
const (
	userGetCurrentUser = iota
	userGetUser
	userGetCurrentUserPremiumType
	userCurrentUserHasFlag
)

const (
	relationshipFilter = iota
	relationshipCount
	relationshipGet
	relationshipGetAt
)

const (
	txSetType = iota
	txSetOwner
	txSetCapacity
	txSetMetadata
	txDeleteMetadata
	txSetLocked
)

const (
	memberTxSetMetadata = iota
	memberTxDeleteMetadata
)

const (
	queryFilter = iota
	querySort
	queryLimit
	queryDistance
)

const (
	lobbyGetCreateTransaction = iota
	lobbyGetUpdateTransaction
	lobbyGetMemberUpdateTransaction
	lobbyCreate
	lobbyUpdate
	lobbyDelete
	lobbyConnect
	lobbyConnectWithActivitySecret
	lobbyDisconnect
	lobbyGet
	lobbyGetActivitySecret
	lobbyGetMetadataValue
	lobbyGetMetadataKey
	lobbyMetadataCount
	lobbyMemberCount
	lobbyGetMemberUserID
	lobbyGetMemberUser
	lobbyGetMemberMetadataValue
	lobbyGetMemberMetadataKey
	lobbyMemberMetadataCount
	lobbyUpdateMember
	lobbySendMessage
	lobbyGetSearchQuery
	lobbySearch
	lobbyCount
	lobbyGetLobbyID
	lobbyConnectVoice
	lobbyDisconnectVoice
	lobbyConnectNetwork
	lobbyDisconnectNetwork
	lobbyFlushNetwork
	lobbyOpenNetworkChannel
	lobbySendNetworkMessage
)

const (
	overlayIsEnabled = iota
	overlayIsLocked
	overlaySetLocked
	overlayOpenActivityInvite
	overlayOpenGuildInvite
	overlayOpenVoiceSettings
)

const (
	storeFetchSkus = iota
	storeCountSkus
	storeGetSku
	storeGetSkuAt
	storeFetchEntitlements
	storeCountEntitlements
	storeGetEntitlement
	storeGetEntitlementAt
	storeHasSkuEntitlement
	storeStartPurchase
)

const (
	achievementSet = iota
	achievementFetch
	achievementCount
	achievementGet
	achievementGetAt
)

type userManager struct{ obj object }

func (m userManager) GetCurrentUser(out *interfaces.User) status.Code {
	code := m.obj.result(userGetCurrentUser, ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m userManager) GetUser(userID int64, callbackData uintptr) {
	m.obj.call(userGetUser, uintptr(userID), callbackData, valueCallback)
}

func (m userManager) GetCurrentUserPremiumType(out *int32) status.Code {
	code := m.obj.result(userGetCurrentUserPremiumType, ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m userManager) CurrentUserHasFlag(flag int32, out *bool) status.Code {
	code := m.obj.result(userCurrentUserHasFlag, uintptr(flag), ptr(out))
	runtime.KeepAlive(out)
	return code
}

type relationshipManager struct{ obj object }

func (m relationshipManager) Filter(filterData uintptr) {
	m.obj.call(relationshipFilter, filterData, filterCallback)
}

func (m relationshipManager) Count(out *int32) status.Code {
	code := m.obj.result(relationshipCount, ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m relationshipManager) Get(userID int64, out *interfaces.Relationship) status.Code {
	code := m.obj.result(relationshipGet, uintptr(userID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m relationshipManager) GetAt(index uint32, out *interfaces.Relationship) status.Code {
	code := m.obj.result(relationshipGetAt, uintptr(index), ptr(out))
	runtime.KeepAlive(out)
	return code
}

type lobbyTransaction struct{ obj object }

func (t lobbyTransaction) SetType(lobbyType int32) status.Code {
	return t.obj.result(txSetType, uintptr(lobbyType))
}

func (t lobbyTransaction) SetOwner(ownerID int64) status.Code {
	return t.obj.result(txSetOwner, uintptr(ownerID))
}

func (t lobbyTransaction) SetCapacity(capacity uint32) status.Code {
	return t.obj.result(txSetCapacity, uintptr(capacity))
}

func (t lobbyTransaction) SetMetadata(key, value []byte) status.Code {
	code := t.obj.result(txSetMetadata, bytesPtr(key), bytesPtr(value))
	runtime.KeepAlive(key)
	runtime.KeepAlive(value)
	return code
}

func (t lobbyTransaction) DeleteMetadata(key []byte) status.Code {
	code := t.obj.result(txDeleteMetadata, bytesPtr(key))
	runtime.KeepAlive(key)
	return code
}

func (t lobbyTransaction) SetLocked(locked bool) status.Code {
	return t.obj.result(txSetLocked, boolArg(locked))
}

type lobbyMemberTransaction struct{ obj object }

func (t lobbyMemberTransaction) SetMetadata(key, value []byte) status.Code {
	code := t.obj.result(memberTxSetMetadata, bytesPtr(key), bytesPtr(value))
	runtime.KeepAlive(key)
	runtime.KeepAlive(value)
	return code
}

func (t lobbyMemberTransaction) DeleteMetadata(key []byte) status.Code {
	code := t.obj.result(memberTxDeleteMetadata, bytesPtr(key))
	runtime.KeepAlive(key)
	return code
}

type lobbySearchQuery struct{ obj object }

func (q lobbySearchQuery) Filter(key []byte, comparison, cast int32, value []byte) status.Code {
	code := q.obj.result(queryFilter, bytesPtr(key), uintptr(comparison), uintptr(cast), bytesPtr(value))
	runtime.KeepAlive(key)
	runtime.KeepAlive(value)
	return code
}

func (q lobbySearchQuery) Sort(key []byte, cast int32, value []byte) status.Code {
	code := q.obj.result(querySort, bytesPtr(key), uintptr(cast), bytesPtr(value))
	runtime.KeepAlive(key)
	runtime.KeepAlive(value)
	return code
}

func (q lobbySearchQuery) Limit(limit uint32) status.Code {
	return q.obj.result(queryLimit, uintptr(limit))
}

func (q lobbySearchQuery) Distance(distance int32) status.Code {
	return q.obj.result(queryDistance, uintptr(distance))
}

type lobbyManager struct{ obj object }

// handle fetches an interface pointer through an out-parameter slot.
func (m lobbyManager) handle(slot int, args ...uintptr) (object, status.Code) {
	out := new(uintptr)
	code := m.obj.result(slot, append(args, ptr(out))...)
	runtime.KeepAlive(out)
	if code != status.Ok {
		return 0, code
	}
	return object(*out), status.Ok
}

func (m lobbyManager) GetLobbyCreateTransaction() (interfaces.ILobbyTransaction, status.Code) {
	obj, code := m.handle(lobbyGetCreateTransaction)
	if code != status.Ok {
		return nil, code
	}
	return lobbyTransaction{obj}, status.Ok
}

func (m lobbyManager) GetLobbyUpdateTransaction(lobbyID int64) (interfaces.ILobbyTransaction, status.Code) {
	obj, code := m.handle(lobbyGetUpdateTransaction, uintptr(lobbyID))
	if code != status.Ok {
		return nil, code
	}
	return lobbyTransaction{obj}, status.Ok
}

func (m lobbyManager) GetMemberUpdateTransaction(lobbyID, userID int64) (interfaces.ILobbyMemberTransaction, status.Code) {
	obj, code := m.handle(lobbyGetMemberUpdateTransaction, uintptr(lobbyID), uintptr(userID))
	if code != status.Ok {
		return nil, code
	}
	return lobbyMemberTransaction{obj}, status.Ok
}

func (m lobbyManager) CreateLobby(tx interfaces.ILobbyTransaction, callbackData uintptr) {
	m.obj.call(lobbyCreate, uintptr(tx.(lobbyTransaction).obj), callbackData, valueCallback)
}

func (m lobbyManager) UpdateLobby(lobbyID int64, tx interfaces.ILobbyTransaction, callbackData uintptr) {
	m.obj.call(lobbyUpdate, uintptr(lobbyID), uintptr(tx.(lobbyTransaction).obj), callbackData, resultCallback)
}

func (m lobbyManager) DeleteLobby(lobbyID int64, callbackData uintptr) {
	m.obj.call(lobbyDelete, uintptr(lobbyID), callbackData, resultCallback)
}

func (m lobbyManager) ConnectLobby(lobbyID int64, secret []byte, callbackData uintptr) {
	m.obj.call(lobbyConnect, uintptr(lobbyID), bytesPtr(secret), callbackData, valueCallback)
	runtime.KeepAlive(secret)
}

func (m lobbyManager) ConnectLobbyWithActivitySecret(secret []byte, callbackData uintptr) {
	m.obj.call(lobbyConnectWithActivitySecret, bytesPtr(secret), callbackData, valueCallback)
	runtime.KeepAlive(secret)
}

func (m lobbyManager) DisconnectLobby(lobbyID int64, callbackData uintptr) {
	m.obj.call(lobbyDisconnect, uintptr(lobbyID), callbackData, resultCallback)
}

func (m lobbyManager) GetLobby(lobbyID int64, out *interfaces.Lobby) status.Code {
	code := m.obj.result(lobbyGet, uintptr(lobbyID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) GetLobbyActivitySecret(lobbyID int64, out *interfaces.LobbySecret) status.Code {
	code := m.obj.result(lobbyGetActivitySecret, uintptr(lobbyID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) GetLobbyMetadataValue(lobbyID int64, key []byte, out *interfaces.MetadataValue) status.Code {
	code := m.obj.result(lobbyGetMetadataValue, uintptr(lobbyID), bytesPtr(key), ptr(out))
	runtime.KeepAlive(key)
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) GetLobbyMetadataKey(lobbyID int64, index int32, out *interfaces.MetadataKey) status.Code {
	code := m.obj.result(lobbyGetMetadataKey, uintptr(lobbyID), uintptr(index), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) LobbyMetadataCount(lobbyID int64, out *int32) status.Code {
	code := m.obj.result(lobbyMetadataCount, uintptr(lobbyID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) MemberCount(lobbyID int64, out *int32) status.Code {
	code := m.obj.result(lobbyMemberCount, uintptr(lobbyID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) GetMemberUserID(lobbyID int64, index int32, out *int64) status.Code {
	code := m.obj.result(lobbyGetMemberUserID, uintptr(lobbyID), uintptr(index), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) GetMemberUser(lobbyID, userID int64, out *interfaces.User) status.Code {
	code := m.obj.result(lobbyGetMemberUser, uintptr(lobbyID), uintptr(userID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) GetMemberMetadataValue(lobbyID, userID int64, key []byte, out *interfaces.MetadataValue) status.Code {
	code := m.obj.result(lobbyGetMemberMetadataValue, uintptr(lobbyID), uintptr(userID), bytesPtr(key), ptr(out))
	runtime.KeepAlive(key)
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) GetMemberMetadataKey(lobbyID, userID int64, index int32, out *interfaces.MetadataKey) status.Code {
	code := m.obj.result(lobbyGetMemberMetadataKey, uintptr(lobbyID), uintptr(userID), uintptr(index), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) MemberMetadataCount(lobbyID, userID int64, out *int32) status.Code {
	code := m.obj.result(lobbyMemberMetadataCount, uintptr(lobbyID), uintptr(userID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) UpdateMember(lobbyID, userID int64, tx interfaces.ILobbyMemberTransaction, callbackData uintptr) {
	m.obj.call(lobbyUpdateMember, uintptr(lobbyID), uintptr(userID),
		uintptr(tx.(lobbyMemberTransaction).obj), callbackData, resultCallback)
}

func (m lobbyManager) SendLobbyMessage(lobbyID int64, data []byte, callbackData uintptr) {
	m.obj.call(lobbySendMessage, uintptr(lobbyID), bytesPtr(data), uintptr(len(data)), callbackData, resultCallback)
	runtime.KeepAlive(data)
}

func (m lobbyManager) GetSearchQuery() (interfaces.ILobbySearchQuery, status.Code) {
	obj, code := m.handle(lobbyGetSearchQuery)
	if code != status.Ok {
		return nil, code
	}
	return lobbySearchQuery{obj}, status.Ok
}

func (m lobbyManager) Search(query interfaces.ILobbySearchQuery, callbackData uintptr) {
	m.obj.call(lobbySearch, uintptr(query.(lobbySearchQuery).obj), callbackData, resultCallback)
}

func (m lobbyManager) LobbyCount(out *int32) {
	m.obj.call(lobbyCount, ptr(out))
	runtime.KeepAlive(out)
}

func (m lobbyManager) GetLobbyID(index int32, out *int64) status.Code {
	code := m.obj.result(lobbyGetLobbyID, uintptr(index), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m lobbyManager) ConnectVoice(lobbyID int64, callbackData uintptr) {
	m.obj.call(lobbyConnectVoice, uintptr(lobbyID), callbackData, resultCallback)
}

func (m lobbyManager) DisconnectVoice(lobbyID int64, callbackData uintptr) {
	m.obj.call(lobbyDisconnectVoice, uintptr(lobbyID), callbackData, resultCallback)
}

func (m lobbyManager) ConnectNetwork(lobbyID int64) status.Code {
	return m.obj.result(lobbyConnectNetwork, uintptr(lobbyID))
}

func (m lobbyManager) DisconnectNetwork(lobbyID int64) status.Code {
	return m.obj.result(lobbyDisconnectNetwork, uintptr(lobbyID))
}

func (m lobbyManager) FlushNetwork() status.Code {
	return m.obj.result(lobbyFlushNetwork)
}

func (m lobbyManager) OpenNetworkChannel(lobbyID int64, channelID uint8, reliable bool) status.Code {
	return m.obj.result(lobbyOpenNetworkChannel, uintptr(lobbyID), uintptr(channelID), boolArg(reliable))
}

func (m lobbyManager) SendNetworkMessage(lobbyID, userID int64, channelID uint8, data []byte) status.Code {
	code := m.obj.result(lobbySendNetworkMessage, uintptr(lobbyID), uintptr(userID), uintptr(channelID),
		bytesPtr(data), uintptr(len(data)))
	runtime.KeepAlive(data)
	return code
}

type overlayManager struct{ obj object }

func (m overlayManager) IsEnabled(out *bool) {
	m.obj.call(overlayIsEnabled, ptr(out))
	runtime.KeepAlive(out)
}

func (m overlayManager) IsLocked(out *bool) {
	m.obj.call(overlayIsLocked, ptr(out))
	runtime.KeepAlive(out)
}

func (m overlayManager) SetLocked(locked bool, callbackData uintptr) {
	m.obj.call(overlaySetLocked, boolArg(locked), callbackData, resultCallback)
}

func (m overlayManager) OpenActivityInvite(actionType int32, callbackData uintptr) {
	m.obj.call(overlayOpenActivityInvite, uintptr(actionType), callbackData, resultCallback)
}

func (m overlayManager) OpenGuildInvite(code []byte, callbackData uintptr) {
	m.obj.call(overlayOpenGuildInvite, bytesPtr(code), callbackData, resultCallback)
	runtime.KeepAlive(code)
}

func (m overlayManager) OpenVoiceSettings(callbackData uintptr) {
	m.obj.call(overlayOpenVoiceSettings, callbackData, resultCallback)
}

type storeManager struct{ obj object }

func (m storeManager) FetchSkus(callbackData uintptr) {
	m.obj.call(storeFetchSkus, callbackData, resultCallback)
}

func (m storeManager) CountSkus(out *int32) {
	m.obj.call(storeCountSkus, ptr(out))
	runtime.KeepAlive(out)
}

func (m storeManager) GetSku(skuID int64, out *interfaces.Sku) status.Code {
	code := m.obj.result(storeGetSku, uintptr(skuID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m storeManager) GetSkuAt(index int32, out *interfaces.Sku) status.Code {
	code := m.obj.result(storeGetSkuAt, uintptr(index), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m storeManager) FetchEntitlements(callbackData uintptr) {
	m.obj.call(storeFetchEntitlements, callbackData, resultCallback)
}

func (m storeManager) CountEntitlements(out *int32) {
	m.obj.call(storeCountEntitlements, ptr(out))
	runtime.KeepAlive(out)
}

func (m storeManager) GetEntitlement(entitlementID int64, out *interfaces.Entitlement) status.Code {
	code := m.obj.result(storeGetEntitlement, uintptr(entitlementID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m storeManager) GetEntitlementAt(index int32, out *interfaces.Entitlement) status.Code {
	code := m.obj.result(storeGetEntitlementAt, uintptr(index), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m storeManager) HasSkuEntitlement(skuID int64, out *bool) status.Code {
	code := m.obj.result(storeHasSkuEntitlement, uintptr(skuID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m storeManager) StartPurchase(skuID int64, callbackData uintptr) {
	m.obj.call(storeStartPurchase, uintptr(skuID), callbackData, resultCallback)
}

type achievementManager struct{ obj object }

func (m achievementManager) SetUserAchievement(achievementID int64, percentComplete uint8, callbackData uintptr) {
	m.obj.call(achievementSet, uintptr(achievementID), uintptr(percentComplete), callbackData, resultCallback)
}

func (m achievementManager) FetchUserAchievements(callbackData uintptr) {
	m.obj.call(achievementFetch, callbackData, resultCallback)
}

func (m achievementManager) CountUserAchievements(out *int32) {
	m.obj.call(achievementCount, ptr(out))
	runtime.KeepAlive(out)
}

func (m achievementManager) GetUserAchievement(achievementID int64, out *interfaces.UserAchievement) status.Code {
	code := m.obj.result(achievementGet, uintptr(achievementID), ptr(out))
	runtime.KeepAlive(out)
	return code
}

func (m achievementManager) GetUserAchievementAt(index int32, out *interfaces.UserAchievement) status.Code {
	code := m.obj.result(achievementGetAt, uintptr(index), ptr(out))
	runtime.KeepAlive(out)
	return code
}
