package storage

import (
	"hauler/internal"
	"hauler/internal/route"
	"hauler/internal/session"
)

// Workspace is everything a command reads and writes back: the three
// persisted records plus the id allocator seeded from them.
type Workspace struct {
	IDs      *route.IDAllocator
	Session  *session.Session
	UI       UIState
	Delivery *route.DeliveryState
}

// Defaults apply only when the matching record has never been written.
type Defaults struct {
	Theme string
	Grid  internal.GridLayout
}

// LoadWorkspace migrates legacy data first, then restores all records.
func (d *DB) LoadWorkspace(defaults Defaults) (*Workspace, error) {
	if _, err := d.MigrateLegacy(); err != nil {
		return nil, err
	}

	ids := &route.IDAllocator{}
	s, err := d.LoadSession(ids)
	if err != nil {
		return nil, err
	}

	uiRaw, err := d.GetKV(KeyUI)
	if err != nil {
		return nil, err
	}
	ui, err := d.LoadUI()
	if err != nil {
		return nil, err
	}
	if uiRaw == nil && defaults.Theme != "" {
		ui.Theme = defaults.Theme
	}

	deliveryRaw, err := d.GetKV(KeyDelivery)
	if err != nil {
		return nil, err
	}
	delivery, err := d.LoadDelivery(ids)
	if err != nil {
		return nil, err
	}
	if deliveryRaw == nil && defaults.Grid.Cols > 0 && defaults.Grid.Rows > 0 {
		delivery.CargoGridLayout = defaults.Grid
	}

	return &Workspace{IDs: ids, Session: s, UI: ui, Delivery: delivery}, nil
}

func (d *DB) SaveWorkspace(w *Workspace) error {
	if err := d.SaveSession(w.Session); err != nil {
		return err
	}
	if err := d.SaveUI(w.UI); err != nil {
		return err
	}
	return d.SaveDelivery(w.Delivery)
}

// SaveWorkspaceWithStatus writes the workspace and moves an inbox row to
// status in one transaction.
func (d *DB) SaveWorkspaceWithStatus(w *Workspace, inboxID int, status string) error {
	tx, err := d.conn.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveRecord(tx, KeySession, w.Session); err != nil {
		return err
	}
	if err := saveRecord(tx, KeyUI, w.UI); err != nil {
		return err
	}
	if err := saveRecord(tx, KeyDelivery, w.Delivery); err != nil {
		return err
	}
	if err := updateInboxStatus(tx, inboxID, status); err != nil {
		return err
	}
	return tx.Commit()
}

// RegenerateRoute rebuilds the delivery plan from the current missions
// using the palette of the selected theme.
func (w *Workspace) RegenerateRoute(aliases route.Aliaser, pruneOrphans bool) {
	w.Delivery.Regenerate(w.Session.Missions, route.Options{
		Aliases:      aliases,
		Palette:      route.Palette(w.UI.Theme),
		PruneOrphans: pruneOrphans,
	}, w.IDs)
}
