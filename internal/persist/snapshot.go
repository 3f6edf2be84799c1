package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/scaperune/sim/internal/world"
	"golang.org/x/crypto/blake2b"
	"go.uber.org/zap"
)

// SnapshotVersion tags the on-disk format. Loads of any other version are
// rejected outright — there is no migration path for save payloads.
const SnapshotVersion = 1

var (
	ErrNoSnapshot      = errors.New("no snapshot for player")
	ErrVersionMismatch = errors.New("snapshot version not supported")
	ErrChecksum        = errors.New("snapshot checksum mismatch")
)

type skillSnap struct {
	Level int   `json:"level"`
	XP    int64 `json:"xp"`
}

type itemSnap struct {
	Slot      int    `json:"slot"`
	ItemID    int32  `json:"item_id"`
	Name      string `json:"name"`
	Count     int32  `json:"count"`
	Stackable bool   `json:"stackable"`
}

type equipSnap struct {
	Slot      int    `json:"slot"`
	ItemID    int32  `json:"item_id"`
	Name      string `json:"name"`
	Count     int32  `json:"count"`
	Stackable bool   `json:"stackable"`
}

// Snapshot is the JSON-serializable whole-state save payload.
// It must round-trip PlayerState exactly.
type Snapshot struct {
	Version int    `json:"version"`
	Name    string `json:"name"`

	Skills    map[string]skillSnap `json:"skills"`
	CurrentHP int                  `json:"current_hp"`
	MaxHP     int                  `json:"max_hp"`
	X         int32                `json:"x"`
	Y         int32                `json:"y"`
	Style     int                  `json:"style"`

	PrayerCurrent float64 `json:"prayer_current"`
	PrayerMax     int     `json:"prayer_max"`
	ActivePrayers []int32 `json:"active_prayers"`

	SpecialCurrent float64 `json:"special_current"`

	Inventory []itemSnap      `json:"inventory"`
	Equipment []equipSnap     `json:"equipment"`
	Flags     map[string]bool `json:"flags"`
}

// Capture builds a snapshot from the live aggregate.
func Capture(p *world.PlayerState) *Snapshot {
	s := &Snapshot{
		Version:        SnapshotVersion,
		Name:           p.Name,
		Skills:         make(map[string]skillSnap, world.SkillCount),
		CurrentHP:      p.CurrentHP,
		MaxHP:          p.MaxHP,
		X:              p.Pos.X,
		Y:              p.Pos.Y,
		Style:          int(p.Style),
		PrayerCurrent:  p.Prayer.Current,
		PrayerMax:      p.Prayer.Max,
		SpecialCurrent: p.Special.Current,
		Flags:          make(map[string]bool, len(p.Flags)),
	}
	for i := world.SkillID(0); i < world.SkillCount; i++ {
		s.Skills[i.String()] = skillSnap{Level: p.Skills[i].Level, XP: p.Skills[i].XP}
	}
	for id := range p.Prayer.Active {
		s.ActivePrayers = append(s.ActivePrayers, id)
	}
	for i := 0; i < world.InventorySize; i++ {
		if it := p.Inv.Get(i); it != nil {
			s.Inventory = append(s.Inventory, itemSnap{
				Slot: i, ItemID: it.ItemID, Name: it.Name, Count: it.Count, Stackable: it.Stackable,
			})
		}
	}
	p.Equip.Each(func(slot world.EquipSlot, it *world.InvItem) {
		s.Equipment = append(s.Equipment, equipSnap{
			Slot: int(slot), ItemID: it.ItemID, Name: it.Name, Count: it.Count, Stackable: it.Stackable,
		})
	})
	for k, v := range p.Flags {
		s.Flags[k] = v
	}
	return s
}

// Apply rebuilds the aggregate from a snapshot.
func (s *Snapshot) Apply(p *world.PlayerState) {
	p.Name = s.Name
	for i := world.SkillID(0); i < world.SkillCount; i++ {
		if sk, ok := s.Skills[i.String()]; ok {
			p.Skills[i] = world.Skill{Level: sk.Level, XP: sk.XP}
		}
	}
	p.CurrentHP = s.CurrentHP
	p.MaxHP = s.MaxHP
	p.Pos = world.Position{X: s.X, Y: s.Y}
	p.Style = world.CombatStyle(s.Style)

	p.Prayer.Current = s.PrayerCurrent
	p.Prayer.Max = s.PrayerMax
	p.Prayer.Active = make(map[int32]bool, len(s.ActivePrayers))
	for _, id := range s.ActivePrayers {
		p.Prayer.Active[id] = true
	}
	p.Special.Current = s.SpecialCurrent

	p.Inv = world.NewInventory()
	for _, it := range s.Inventory {
		if it.Slot >= 0 && it.Slot < world.InventorySize {
			p.Inv.Slots[it.Slot] = &world.InvItem{
				ItemID: it.ItemID, Name: it.Name, Count: it.Count, Stackable: it.Stackable,
			}
		}
	}
	p.Equip = world.NewEquipment()
	for _, it := range s.Equipment {
		p.Equip.Set(world.EquipSlot(it.Slot), &world.InvItem{
			ItemID: it.ItemID, Name: it.Name, Count: it.Count, Stackable: it.Stackable,
		})
	}
	p.Flags = make(map[string]bool, len(s.Flags))
	for k, v := range s.Flags {
		p.Flags[k] = v
	}
}

// SnapshotStore persists snapshots in the save database.
type SnapshotStore struct {
	db  *DB
	log *zap.Logger
}

func NewSnapshotStore(db *DB, log *zap.Logger) *SnapshotStore {
	return &SnapshotStore{db: db, log: log}
}

// Save captures and writes a new snapshot row.
func (st *SnapshotStore) Save(ctx context.Context, p *world.PlayerState) error {
	snap := Capture(p)
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	sum := blake2b.Sum256(payload)

	_, err = st.db.SQL.ExecContext(ctx,
		`INSERT INTO snapshots (player_name, version, payload, checksum)
		 VALUES (?, ?, ?, ?)`,
		p.Name, SnapshotVersion, payload, sum[:],
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	st.log.Debug("snapshot saved", zap.String("player", p.Name), zap.Int("bytes", len(payload)))
	return nil
}

// LoadLatest reads the most recent snapshot for a player. Version or checksum
// mismatches are rejected before any decode.
func (st *SnapshotStore) LoadLatest(ctx context.Context, name string) (*Snapshot, error) {
	var (
		version  int
		payload  []byte
		checksum []byte
	)
	err := st.db.SQL.QueryRowContext(ctx,
		`SELECT version, payload, checksum FROM snapshots
		 WHERE player_name = ? ORDER BY id DESC LIMIT 1`,
		name,
	).Scan(&version, &payload, &checksum)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	if version != SnapshotVersion {
		return nil, ErrVersionMismatch
	}
	sum := blake2b.Sum256(payload)
	if len(checksum) != len(sum) || string(checksum) != string(sum[:]) {
		return nil, ErrChecksum
	}
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
