package gamesdk

import (
	"github.com/opd-ai/gamesdk/collection"
	"github.com/opd-ai/gamesdk/interfaces"
)

func (d *Discord) storeManager() (interfaces.IStoreManager, error) {
	core, err := d.nativeCore()
	if err != nil {
		return nil, err
	}
	return core.StoreManager(), nil
}

// FetchSkus loads the SKUs of the application. Sku, SkuCount, SkuAt and
// IterSkus read the fetched list.
func (d *Discord) FetchSkus(cb func(error)) error {
	mgr, err := d.storeManager()
	if err != nil {
		return err
	}
	return d.submitResult("FetchSkus", cb, func(data uintptr) {
		mgr.FetchSkus(data)
	})
}

// Sku returns a fetched SKU by id.
func (d *Discord) Sku(id Snowflake) (Sku, error) {
	mgr, err := d.storeManager()
	if err != nil {
		return Sku{}, err
	}
	var s interfaces.Sku
	if err := resultError("get sku", mgr.GetSku(int64(id), &s)); err != nil {
		return Sku{}, err
	}
	return skuFromNative(&s), nil
}

// SkuCount returns the number of fetched SKUs.
func (d *Discord) SkuCount() (int32, error) {
	mgr, err := d.storeManager()
	if err != nil {
		return 0, err
	}
	var count int32
	mgr.CountSkus(&count)
	return count, nil
}

// SkuAt returns the fetched SKU at index.
func (d *Discord) SkuAt(index int32) (Sku, error) {
	mgr, err := d.storeManager()
	if err != nil {
		return Sku{}, err
	}
	var s interfaces.Sku
	if err := resultError("get sku at", mgr.GetSkuAt(index, &s)); err != nil {
		return Sku{}, err
	}
	return skuFromNative(&s), nil
}

// IterSkus returns a lazy view over the fetched SKUs.
func (d *Discord) IterSkus() (*collection.Collection[Sku], error) {
	return collection.FromCount(d.SkuCount, d.SkuAt)
}

// FetchEntitlements loads the entitlements of the current user.
func (d *Discord) FetchEntitlements(cb func(error)) error {
	mgr, err := d.storeManager()
	if err != nil {
		return err
	}
	return d.submitResult("FetchEntitlements", cb, func(data uintptr) {
		mgr.FetchEntitlements(data)
	})
}

// Entitlement returns a fetched entitlement by id.
func (d *Discord) Entitlement(id Snowflake) (Entitlement, error) {
	mgr, err := d.storeManager()
	if err != nil {
		return Entitlement{}, err
	}
	var e interfaces.Entitlement
	if err := resultError("get entitlement", mgr.GetEntitlement(int64(id), &e)); err != nil {
		return Entitlement{}, err
	}
	return entitlementFromNative(&e), nil
}

// EntitlementCount returns the number of fetched entitlements.
func (d *Discord) EntitlementCount() (int32, error) {
	mgr, err := d.storeManager()
	if err != nil {
		return 0, err
	}
	var count int32
	mgr.CountEntitlements(&count)
	return count, nil
}

// EntitlementAt returns the fetched entitlement at index.
func (d *Discord) EntitlementAt(index int32) (Entitlement, error) {
	mgr, err := d.storeManager()
	if err != nil {
		return Entitlement{}, err
	}
	var e interfaces.Entitlement
	if err := resultError("get entitlement at", mgr.GetEntitlementAt(index, &e)); err != nil {
		return Entitlement{}, err
	}
	return entitlementFromNative(&e), nil
}

// IterEntitlements returns a lazy view over the fetched entitlements.
func (d *Discord) IterEntitlements() (*collection.Collection[Entitlement], error) {
	return collection.FromCount(d.EntitlementCount, d.EntitlementAt)
}

// HasEntitlement reports whether the current user owns a SKU.
func (d *Discord) HasEntitlement(sku Snowflake) (bool, error) {
	mgr, err := d.storeManager()
	if err != nil {
		return false, err
	}
	var has bool
	if err := resultError("has sku entitlement", mgr.HasSkuEntitlement(int64(sku), &has)); err != nil {
		return false, err
	}
	return has, nil
}

// StartPurchase opens the purchase flow for a SKU. New entitlements are
// reported through OnEntitlementCreate.
func (d *Discord) StartPurchase(sku Snowflake, cb func(error)) error {
	mgr, err := d.storeManager()
	if err != nil {
		return err
	}
	return d.submitResult("StartPurchase", cb, func(data uintptr) {
		mgr.StartPurchase(int64(sku), data)
	})
}
