package campaign

import "fmt"

type Type string

const (
	TypeQuran   Type = "QURAN"
	TypeYasin   Type = "YASIN"
	TypeFatiha  Type = "FATIHA"
	TypeSalavat Type = "SALAVAT"
)

type TypeConfig struct {
	Label     string
	SlotTotal int
	SlotBased bool
}

// Configs maps every campaign type to its completion mode. QURAN and
// YASIN allocate a fixed slot per juz/page; FATIHA and SALAVAT run an
// open count toward a target.
var Configs = map[Type]TypeConfig{
	TypeQuran:   {Label: "Kuran Hatmi", SlotTotal: 30, SlotBased: true},
	TypeYasin:   {Label: "Yasin Hatmi", SlotTotal: 41, SlotBased: true},
	TypeFatiha:  {Label: "Fatiha", SlotBased: false},
	TypeSalavat: {Label: "Salavat", SlotBased: false},
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := Configs[t]; !ok {
		return "", fmt.Errorf("unknown campaign type %q", s)
	}
	return t, nil
}

type Slot struct {
	Index       int    `json:"index"`
	TakenByName string `json:"takenByName"`
	TakenAt     string `json:"takenAt"`
}

func (s Slot) Open() bool {
	return s.TakenByName == ""
}

type Contribution struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	At    string `json:"at"`
}

type Campaign struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      Type   `json:"type"`
	Intention string `json:"intention,omitempty"`
	DueDate   string `json:"dueDate"`
	ShareCode string `json:"shareCode"`
	ShareLink string `json:"shareLink,omitempty"`
	CreatedAt string `json:"createdAt"`

	// Slot-based (QURAN, YASIN)
	SlotTotal int    `json:"slotTotal,omitempty"`
	Slots     []Slot `json:"slots,omitempty"`

	// Count-based (FATIHA, SALAVAT)
	TargetCount   int            `json:"targetCount,omitempty"`
	CurrentCount  int            `json:"currentCount,omitempty"`
	Contributions []Contribution `json:"contributions,omitempty"`
}

func (c *Campaign) SlotBased() bool {
	return Configs[c.Type].SlotBased
}

// TakenCount is claimed slots for slot-based campaigns, the running
// count otherwise.
func (c *Campaign) TakenCount() int {
	if c.SlotBased() {
		n := 0
		for _, s := range c.Slots {
			if !s.Open() {
				n++
			}
		}
		return n
	}
	return c.CurrentCount
}

func (c *Campaign) TotalCount() int {
	if c.SlotBased() {
		return c.SlotTotal
	}
	return c.TargetCount
}

// ProgressRatio is clamped to 1.0 for display; the underlying count may
// exceed the target.
func (c *Campaign) ProgressRatio() float64 {
	total := c.TotalCount()
	if total == 0 {
		return 0
	}
	ratio := float64(c.TakenCount()) / float64(total)
	if ratio > 1 {
		return 1
	}
	return ratio
}

type CreateCampaignRequest struct {
	Title       string `json:"title"`
	Type        string `json:"type"`
	Intention   string `json:"intention,omitempty"`
	DueDate     string `json:"dueDate,omitempty"`
	TargetCount int    `json:"targetCount,omitempty"`
}

type ClaimSlotRequest struct {
	SlotIndex int    `json:"slotIndex"`
	Name      string `json:"name"`
}

type AddContributionRequest struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type JoinRequest struct {
	Code string `json:"code"`
}
