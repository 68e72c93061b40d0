package testing

import (
	"runtime"
	"time"
	"unsafe"

	"github.com/opd-ai/gamesdk/bridge"
	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/limits"
	"github.com/opd-ai/gamesdk/status"
	"github.com/opd-ai/gamesdk/textbuf"
	"github.com/sirupsen/logrus"
)

// simUserManager implements interfaces.IUserManager
type simUserManager struct {
	c *SimulatedCore
}

// GetCurrentUser implements IUserManager.GetCurrentUser
func (m *simUserManager) GetCurrentUser(out *interfaces.User) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("UserManager.GetCurrentUser"); code != status.Ok {
		return code
	}
	if m.c.currentUser.ID == 0 {
		return status.NotFound
	}
	*out = m.c.currentUser
	return status.Ok
}

// GetUser implements IUserManager.GetUser
func (m *simUserManager) GetUser(userID int64, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("UserManager.GetUser"); code != status.Ok {
		queueValueLocked(m.c, callbackData, code, interfaces.User{})
		return
	}
	u, ok := m.c.users[userID]
	if !ok {
		queueValueLocked(m.c, callbackData, status.NotFound, interfaces.User{})
		return
	}
	queueValueLocked(m.c, callbackData, status.Ok, u)
}

// GetCurrentUserPremiumType implements IUserManager.GetCurrentUserPremiumType
func (m *simUserManager) GetCurrentUserPremiumType(out *int32) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("UserManager.GetCurrentUserPremiumType"); code != status.Ok {
		return code
	}
	if m.c.currentUser.ID == 0 {
		return status.NotFound
	}
	*out = m.c.premiumType
	return status.Ok
}

// CurrentUserHasFlag implements IUserManager.CurrentUserHasFlag
func (m *simUserManager) CurrentUserHasFlag(flag int32, out *bool) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("UserManager.CurrentUserHasFlag"); code != status.Ok {
		return code
	}
	if m.c.currentUser.ID == 0 {
		return status.NotFound
	}
	*out = m.c.userFlags&flag == flag
	return status.Ok
}

// simRelationshipManager implements interfaces.IRelationshipManager
type simRelationshipManager struct {
	c *SimulatedCore
}

// Filter implements IRelationshipManager.Filter. The filter trampoline runs
// synchronously, as it does natively, outside the simulation lock.
func (m *simRelationshipManager) Filter(filterData uintptr) {
	m.c.mu.Lock()
	m.c.calls = append(m.c.calls, "RelationshipManager.Filter")
	candidates := make([]*interfaces.Relationship, len(m.c.relationships))
	for i := range m.c.relationships {
		rel := new(interfaces.Relationship)
		*rel = m.c.relationships[i]
		candidates[i] = rel
	}
	m.c.mu.Unlock()

	kept := make([]interfaces.Relationship, 0, len(candidates))
	for _, rel := range candidates {
		if bridge.FilterTrampoline(filterData, uintptr(unsafe.Pointer(rel))) {
			kept = append(kept, *rel)
		}
		runtime.KeepAlive(rel)
	}

	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	m.c.filtered = kept
	m.c.hasFiltered = true
}

// Count implements IRelationshipManager.Count
func (m *simRelationshipManager) Count(out *int32) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("RelationshipManager.Count"); code != status.Ok {
		return code
	}
	if !m.c.hasFiltered {
		return status.NotFiltered
	}
	*out = int32(len(m.c.filtered))
	return status.Ok
}

// Get implements IRelationshipManager.Get
func (m *simRelationshipManager) Get(userID int64, out *interfaces.Relationship) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("RelationshipManager.Get"); code != status.Ok {
		return code
	}
	for _, rel := range m.c.relationships {
		if rel.User.ID == userID {
			*out = rel
			return status.Ok
		}
	}
	return status.NotFound
}

// GetAt implements IRelationshipManager.GetAt
func (m *simRelationshipManager) GetAt(index uint32, out *interfaces.Relationship) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("RelationshipManager.GetAt"); code != status.Ok {
		return code
	}
	if !m.c.hasFiltered {
		return status.NotFiltered
	}
	if int(index) >= len(m.c.filtered) {
		return status.NotFound
	}
	*out = m.c.filtered[index]
	return status.Ok
}

// simOverlayManager implements interfaces.IOverlayManager
type simOverlayManager struct {
	c *SimulatedCore
}

// IsEnabled implements IOverlayManager.IsEnabled
func (m *simOverlayManager) IsEnabled(out *bool) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	m.c.calls = append(m.c.calls, "OverlayManager.IsEnabled")
	*out = m.c.overlayEnabled
}

// IsLocked implements IOverlayManager.IsLocked
func (m *simOverlayManager) IsLocked(out *bool) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	m.c.calls = append(m.c.calls, "OverlayManager.IsLocked")
	*out = m.c.overlayLocked
}

// SetLocked implements IOverlayManager.SetLocked
func (m *simOverlayManager) SetLocked(locked bool, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("OverlayManager.SetLocked"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	if !m.c.overlayEnabled {
		m.c.queueResultLocked(callbackData, status.NotRunning)
		return
	}
	changed := m.c.overlayLocked != locked
	m.c.overlayLocked = locked
	m.c.queueResultLocked(callbackData, status.Ok)
	if changed {
		m.c.queueEventLocked(interfaces.EventOverlayToggle, nil, boolArg(locked))
	}
}

func (m *simOverlayManager) open(op string, callbackData uintptr, valid bool) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked(op); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	switch {
	case !m.c.overlayEnabled:
		m.c.queueResultLocked(callbackData, status.NotRunning)
	case !valid:
		m.c.queueResultLocked(callbackData, status.InvalidInvite)
	default:
		m.c.queueResultLocked(callbackData, status.Ok)
	}
}

// OpenActivityInvite implements IOverlayManager.OpenActivityInvite
func (m *simOverlayManager) OpenActivityInvite(actionType int32, callbackData uintptr) {
	m.open("OverlayManager.OpenActivityInvite", callbackData, actionType == 1 || actionType == 2)
}

// OpenGuildInvite implements IOverlayManager.OpenGuildInvite
func (m *simOverlayManager) OpenGuildInvite(code []byte, callbackData uintptr) {
	text, ok := decodeText(code)
	m.open("OverlayManager.OpenGuildInvite", callbackData, ok && text != "")
}

// OpenVoiceSettings implements IOverlayManager.OpenVoiceSettings
func (m *simOverlayManager) OpenVoiceSettings(callbackData uintptr) {
	m.open("OverlayManager.OpenVoiceSettings", callbackData, true)
}

// simStoreManager implements interfaces.IStoreManager
type simStoreManager struct {
	c *SimulatedCore
}

// FetchSkus implements IStoreManager.FetchSkus
func (m *simStoreManager) FetchSkus(callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("StoreManager.FetchSkus"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	m.c.skusFetched = true
	m.c.queueResultLocked(callbackData, status.Ok)
}

// CountSkus implements IStoreManager.CountSkus
func (m *simStoreManager) CountSkus(out *int32) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	m.c.calls = append(m.c.calls, "StoreManager.CountSkus")
	if !m.c.skusFetched {
		*out = 0
		return
	}
	*out = int32(len(m.c.skus))
}

// GetSku implements IStoreManager.GetSku
func (m *simStoreManager) GetSku(skuID int64, out *interfaces.Sku) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("StoreManager.GetSku"); code != status.Ok {
		return code
	}
	if !m.c.skusFetched {
		return status.NotFetched
	}
	for _, sku := range m.c.skus {
		if sku.ID == skuID {
			*out = sku
			return status.Ok
		}
	}
	return status.NotFound
}

// GetSkuAt implements IStoreManager.GetSkuAt
func (m *simStoreManager) GetSkuAt(index int32, out *interfaces.Sku) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("StoreManager.GetSkuAt"); code != status.Ok {
		return code
	}
	if !m.c.skusFetched {
		return status.NotFetched
	}
	if index < 0 || int(index) >= len(m.c.skus) {
		return status.NotFound
	}
	*out = m.c.skus[index]
	return status.Ok
}

// FetchEntitlements implements IStoreManager.FetchEntitlements
func (m *simStoreManager) FetchEntitlements(callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("StoreManager.FetchEntitlements"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	m.c.entitlementsFetched = true
	m.c.queueResultLocked(callbackData, status.Ok)
}

// CountEntitlements implements IStoreManager.CountEntitlements
func (m *simStoreManager) CountEntitlements(out *int32) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	m.c.calls = append(m.c.calls, "StoreManager.CountEntitlements")
	if !m.c.entitlementsFetched {
		*out = 0
		return
	}
	*out = int32(len(m.c.entitlements))
}

// GetEntitlement implements IStoreManager.GetEntitlement
func (m *simStoreManager) GetEntitlement(entitlementID int64, out *interfaces.Entitlement) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("StoreManager.GetEntitlement"); code != status.Ok {
		return code
	}
	if !m.c.entitlementsFetched {
		return status.NotFetched
	}
	for _, e := range m.c.entitlements {
		if e.ID == entitlementID {
			*out = e
			return status.Ok
		}
	}
	return status.NotFound
}

// GetEntitlementAt implements IStoreManager.GetEntitlementAt
func (m *simStoreManager) GetEntitlementAt(index int32, out *interfaces.Entitlement) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("StoreManager.GetEntitlementAt"); code != status.Ok {
		return code
	}
	if !m.c.entitlementsFetched {
		return status.NotFetched
	}
	if index < 0 || int(index) >= len(m.c.entitlements) {
		return status.NotFound
	}
	*out = m.c.entitlements[index]
	return status.Ok
}

// HasSkuEntitlement implements IStoreManager.HasSkuEntitlement
func (m *simStoreManager) HasSkuEntitlement(skuID int64, out *bool) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("StoreManager.HasSkuEntitlement"); code != status.Ok {
		return code
	}
	if !m.c.entitlementsFetched {
		return status.NotFetched
	}
	*out = false
	for _, e := range m.c.entitlements {
		if e.SkuID == skuID {
			*out = true
			break
		}
	}
	return status.Ok
}

// StartPurchase implements IStoreManager.StartPurchase. A successful purchase
// grants an entitlement and raises the entitlement create event.
func (m *simStoreManager) StartPurchase(skuID int64, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("StoreManager.StartPurchase"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}

	var sku *interfaces.Sku
	for i := range m.c.skus {
		if m.c.skus[i].ID == skuID {
			sku = &m.c.skus[i]
			break
		}
	}
	if sku == nil {
		m.c.queueResultLocked(callbackData, status.NotFound)
		return
	}

	e := interfaces.Entitlement{ID: m.c.nextEntitlementID, Type: 1, SkuID: skuID}
	m.c.nextEntitlementID++
	m.c.entitlements = append(m.c.entitlements, e)

	logrus.WithFields(logrus.Fields{
		"function":       "SimulatedStoreManager.StartPurchase",
		"sku_id":         skuID,
		"entitlement_id": e.ID,
	}).Info("Simulating purchase")

	m.c.queueResultLocked(callbackData, status.Ok)
	queuePointerEventLocked(m.c, interfaces.EventEntitlementCreate, e)
}

// simAchievementManager implements interfaces.IAchievementManager
type simAchievementManager struct {
	c *SimulatedCore
}

// SetUserAchievement implements IAchievementManager.SetUserAchievement
func (m *simAchievementManager) SetUserAchievement(achievementID int64, percentComplete uint8, callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("AchievementManager.SetUserAchievement"); code != status.Ok {
		m.c.queueResultLocked(callbackData, code)
		return
	}
	if percentComplete > limits.MaxPercentComplete {
		m.c.queueResultLocked(callbackData, status.InvalidPayload)
		return
	}

	var a *interfaces.UserAchievement
	for i := range m.c.achievements {
		if m.c.achievements[i].AchievementID == achievementID {
			a = &m.c.achievements[i]
			break
		}
	}
	if a == nil {
		m.c.achievements = append(m.c.achievements, interfaces.UserAchievement{
			UserID:        m.c.currentUser.ID,
			AchievementID: achievementID,
		})
		a = &m.c.achievements[len(m.c.achievements)-1]
	}
	a.PercentComplete = percentComplete
	if percentComplete == limits.MaxPercentComplete && textbuf.Decode(a.UnlockedAt[:]) == "" {
		put(a.UnlockedAt[:], time.Now().UTC().Format(time.RFC3339))
	}

	m.c.queueResultLocked(callbackData, status.Ok)
	queuePointerEventLocked(m.c, interfaces.EventUserAchievementUpdate, *a)
}

// FetchUserAchievements implements IAchievementManager.FetchUserAchievements
func (m *simAchievementManager) FetchUserAchievements(callbackData uintptr) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	m.c.queueResultLocked(callbackData, m.c.injectedLocked("AchievementManager.FetchUserAchievements"))
}

// CountUserAchievements implements IAchievementManager.CountUserAchievements
func (m *simAchievementManager) CountUserAchievements(out *int32) {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	m.c.calls = append(m.c.calls, "AchievementManager.CountUserAchievements")
	*out = int32(len(m.c.achievements))
}

// GetUserAchievement implements IAchievementManager.GetUserAchievement
func (m *simAchievementManager) GetUserAchievement(achievementID int64, out *interfaces.UserAchievement) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("AchievementManager.GetUserAchievement"); code != status.Ok {
		return code
	}
	for _, a := range m.c.achievements {
		if a.AchievementID == achievementID {
			*out = a
			return status.Ok
		}
	}
	return status.NotFound
}

// GetUserAchievementAt implements IAchievementManager.GetUserAchievementAt
func (m *simAchievementManager) GetUserAchievementAt(index int32, out *interfaces.UserAchievement) status.Code {
	m.c.mu.Lock()
	defer m.c.mu.Unlock()
	if code := m.c.injectedLocked("AchievementManager.GetUserAchievementAt"); code != status.Ok {
		return code
	}
	if index < 0 || int(index) >= len(m.c.achievements) {
		return status.NotFound
	}
	*out = m.c.achievements[index]
	return status.Ok
}
