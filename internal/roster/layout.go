package roster

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"
)

// DefaultLayoutVersion identifies the built-in "Servizio Custodia" roster template
const DefaultLayoutVersion = "servizio-custodia-v1"

// RowSlot describes the shift a roster row stands for
type RowSlot struct {
	Location string `json:"location" mapstructure:"location"`
	Time     string `json:"time" mapstructure:"time"`
	Notes    string `json:"notes,omitempty" mapstructure:"notes"`
}

// Layout maps row positions (relative to the first row after the header)
// to the shift slot printed on that row. It is tied to one roster template:
// when the office changes the template, ship a new layout file instead of code.
type Layout struct {
	Version string
	Slots   map[int]RowSlot
}

// layoutEntry is the on-disk form of a single slot
type layoutEntry struct {
	Index    int    `mapstructure:"index"`
	Location string `mapstructure:"location"`
	Time     string `mapstructure:"time"`
	Notes    string `mapstructure:"notes"`
}

var fallbackSlot = RowSlot{Location: UndefinedLocation}

// Slot returns the slot for a structure index, or the "undefined shift"
// fallback when the template has no row at that index.
func (l *Layout) Slot(index int) (RowSlot, bool) {
	if l != nil {
		if slot, ok := l.Slots[index]; ok {
			return slot, true
		}
	}
	return fallbackSlot, false
}

// Indices returns the defined slot indices in ascending order
func (l *Layout) Indices() []int {
	indices := make([]int, 0, len(l.Slots))
	for idx := range l.Slots {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// LoadLayout reads a layout file (YAML, JSON or TOML, chosen by extension).
//
//	version: servizio-custodia-v2
//	slots:
//	  - index: 0
//	    location: Giardini del Castello
//	    time: "08:00-14:00"
func LoadLayout(path string) (*Layout, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read layout file %s: %w", path, err)
	}

	var entries []layoutEntry
	if err := v.UnmarshalKey("slots", &entries); err != nil {
		return nil, fmt.Errorf("failed to decode layout slots: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("layout file %s defines no slots", path)
	}

	layout := &Layout{
		Version: v.GetString("version"),
		Slots:   make(map[int]RowSlot, len(entries)),
	}
	if layout.Version == "" {
		layout.Version = path
	}

	for _, e := range entries {
		if e.Index < 0 {
			return nil, fmt.Errorf("layout slot index must not be negative: %d", e.Index)
		}
		if _, dup := layout.Slots[e.Index]; dup {
			return nil, fmt.Errorf("layout slot index %d defined twice", e.Index)
		}
		layout.Slots[e.Index] = RowSlot{Location: e.Location, Time: e.Time, Notes: e.Notes}
	}

	return layout, nil
}

// DefaultLayout returns the built-in row map of the custody roster.
// Gaps in the numbering are separator rows of the printed template.
func DefaultLayout() *Layout {
	slots := map[int]RowSlot{}
	add := func(location string, start int, times ...string) {
		for i, t := range times {
			slots[start+i] = RowSlot{Location: location, Time: t}
		}
	}

	add("Giardini del Castello", 0, "08:00-14:00", "08:00-14:00", "14:00-21:00", "16:00-22:00", "16:00-22:00")
	add("Villa Bonelli", 5, "09:00-13:00", "16:00-20:00")
	add("Giardini v.le Giannone", 7, "08:30-12:30", "16:30-20:30")
	add("Parco dell'Umanità", 9, "09:00-11:00", "16:00-18:00", "16:00-20:00")
	add("Giardini viale Manzoni-Via Da Vinci", 12, "10:00-12:00", "16:15-20:15", "10:30-12:30", "17:15-20:15")
	add("Paladisfida Borgia", 16, "14:30-23:30", "08:15-13:15", "14:30-23:30")
	add("Canne della Battaglia", 19, "08:45-14:45")
	add("Cantina della sfida", 20, "09:00-13:00", "15:00-19:00")
	add("Stadio Puttilli", 22, "08:00-12:00", "10:00-13:00", "15:00-18:00")
	add("Giardini via Chieffi", 25, "10:00-13:00", "17:00-20:00")
	add("Giardini Stadio Simeone", 27, "10:00-13:00", "17:00-20:00")
	add("Palazzo di Città", 29, "06:00-12:00", "12:00-18:00", "18:00-24:00", "06:00-14:00", "14:00-22:00")
	add("Cimitero", 34, "07:30-12:30", "15:00-19:00", "06:30-13:30")
	add("Sede Bar.S.A.", 39, "00:00-06:20", "06:00-12:20", "12:00-18:20", "13:00-19:20",
		"18:00-24:00", "00:00-08:00", "08:00-16:00", "16:00-24:00")
	add("Distribuzione Prodotti", 48, "15:00-20:00")
	add("Riposo", 50, "", "", "", "", "", "", "")
	add("2° Riposo", 58, "", "", "", "", "")
	add("Ferie", 64, "", "", "", "")
	add("Malattia", 69, "", "")
	add("Permessi Vari", 72, "", "")

	return &Layout{Version: DefaultLayoutVersion, Slots: slots}
}
