package testing

import (
	"maps"
	"slices"

	"github.com/opd-ai/gamesdk/interfaces"
	"github.com/opd-ai/gamesdk/textbuf"
)

// LobbySnapshot is a copy of a simulated lobby's state
type LobbySnapshot struct {
	Lobby          interfaces.Lobby
	Metadata       map[string]string
	Members        []int64
	MemberMetadata map[int64]map[string]string
	Voice          bool
	Network        bool
}

// SetCurrentUser replaces the user the simulated client is logged in as
func (c *SimulatedCore) SetCurrentUser(id int64, username, discriminator string, bot bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentUser = makeUser(id, username, discriminator, bot)
	c.users[id] = c.currentUser
}

// ClearCurrentUser simulates a client that has not received its user yet
func (c *SimulatedCore) ClearCurrentUser() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentUser = interfaces.User{}
}

// SetPremiumType sets the EDiscordPremiumType of the current user
func (c *SimulatedCore) SetPremiumType(premiumType int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.premiumType = premiumType
}

// SetUserFlags sets the EDiscordUserFlag bits of the current user
func (c *SimulatedCore) SetUserFlags(flags int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userFlags = flags
}

// AddUser makes a user known to the simulation
func (c *SimulatedCore) AddUser(id int64, username, discriminator string, bot bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[id] = makeUser(id, username, discriminator, bot)
}

// AddRelationship adds a relationship with a user, registering the user too
func (c *SimulatedCore) AddRelationship(relType int32, userID int64, username string, presenceStatus int32) interfaces.Relationship {
	c.mu.Lock()
	defer c.mu.Unlock()

	rel := interfaces.Relationship{Type: relType}
	rel.User = makeUser(userID, username, "0000", false)
	rel.Presence.Status = presenceStatus
	c.users[userID] = rel.User
	c.relationships = append(c.relationships, rel)
	return rel
}

// SetRelationshipActivity sets the activity of an existing relationship
func (c *SimulatedCore) SetRelationshipActivity(userID int64, name, state string, partyCurrent, partyMax int32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.relationships {
		if c.relationships[i].User.ID != userID {
			continue
		}
		a := &c.relationships[i].Presence.Activity
		put(a.Name[:], name)
		put(a.State[:], state)
		a.Party.Size = interfaces.PartySize{CurrentSize: partyCurrent, MaxSize: partyMax}
		return true
	}
	return false
}

// AddSku adds a SKU that becomes visible after FetchSkus
func (c *SimulatedCore) AddSku(id int64, skuType int32, name string, amount uint32, currency string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sku := interfaces.Sku{ID: id, Type: skuType}
	put(sku.Name[:], name)
	sku.Price.Amount = amount
	put(sku.Price.Currency[:], currency)
	c.skus = append(c.skus, sku)
}

// AddEntitlement adds an entitlement that becomes visible after FetchEntitlements
func (c *SimulatedCore) AddEntitlement(id int64, entitlementType int32, skuID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entitlements = append(c.entitlements, interfaces.Entitlement{ID: id, Type: entitlementType, SkuID: skuID})
}

// SetOverlay sets the overlay state
func (c *SimulatedCore) SetOverlay(enabled, locked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlayEnabled = enabled
	c.overlayLocked = locked
}

// SeedLobby adds a lobby owned by ownerID with the given members
func (c *SimulatedCore) SeedLobby(id int64, lobbyType int32, ownerID int64, capacity uint32, secret string, metadata map[string]string, members ...int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := newSimLobby(id, ownerID)
	l.lobby.Type = lobbyType
	l.lobby.Capacity = capacity
	put(l.lobby.Secret[:], secret)
	for k, v := range metadata {
		l.metadata[k] = v
	}
	for _, m := range members {
		l.addMember(m)
	}
	c.lobbies[id] = l
	if id >= c.nextLobbyID {
		c.nextLobbyID = id + 1
	}
}

// SeedLobbyMember adds a member to an existing simulated lobby without
// raising an event. It reports whether the lobby exists.
func (c *SimulatedCore) SeedLobbyMember(lobbyID, userID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lobbies[lobbyID]
	if !ok {
		return false
	}
	l.addMember(userID)
	return true
}

// Lobby returns a snapshot of a simulated lobby
func (c *SimulatedCore) Lobby(id int64) (LobbySnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.lobbies[id]
	if !ok {
		return LobbySnapshot{}, false
	}
	snap := LobbySnapshot{
		Lobby:          l.lobby,
		Metadata:       maps.Clone(l.metadata),
		Members:        slices.Clone(l.members),
		MemberMetadata: make(map[int64]map[string]string, len(l.memberMetadata)),
		Voice:          l.voice,
		Network:        l.network,
	}
	for m, md := range l.memberMetadata {
		snap.MemberMetadata[m] = maps.Clone(md)
	}
	return snap, true
}

// LobbySecret returns the decoded secret of a simulated lobby
func (c *SimulatedCore) LobbySecret(id int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.lobbies[id]; ok {
		return textbuf.Decode(l.lobby.Secret[:])
	}
	return ""
}

// Transactions returns every lobby transaction handed out, in order
func (c *SimulatedCore) Transactions() []*SimulatedTransaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.transactions)
}

// MemberTransactions returns every member transaction handed out, in order
func (c *SimulatedCore) MemberTransactions() []*SimulatedMemberTransaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.memberTransactions)
}

// SearchQueries returns every search query handed out, in order
func (c *SimulatedCore) SearchQueries() []*SimulatedSearchQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.queries)
}

// LobbyMessages returns the lobby messages sent so far
func (c *SimulatedCore) LobbyMessages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lobbyMessages)
}

// NetworkMessages returns the network messages sent so far
func (c *SimulatedCore) NetworkMessages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.networkMessages)
}

// Achievements returns the achievement state of the current user
func (c *SimulatedCore) Achievements() []interfaces.UserAchievement {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.achievements)
}
