package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nege373/namazingo/internal/types/campaign"
	"github.com/nege373/namazingo/storage"
	"github.com/nege373/namazingo/utils"
)

const shareLinkScheme = "hatimapp://join?code="

// CampaignService owns the list of group-recitation campaigns. Same
// discipline as the progress ledger: load once, mutate under the
// mutex, rewrite the whole blob after every change.
type CampaignService struct {
	store     storage.Store
	mu        sync.Mutex
	campaigns []*campaign.Campaign
	now       func() time.Time
	genCode   func() string
}

func NewCampaignService(ctx context.Context, store storage.Store) *CampaignService {
	s := &CampaignService{
		store:     store,
		campaigns: []*campaign.Campaign{},
		now:       time.Now,
		genCode:   utils.GenerateShareCode,
	}

	raw, ok, err := store.Get(ctx, storage.KeyCampaigns)
	if err != nil {
		log.Printf("CampaignService: failed to load campaigns, starting fresh: %v", err)
		return s
	}
	if !ok {
		return s
	}

	var loaded []*campaign.Campaign
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		log.Printf("CampaignService: corrupt campaign list, starting fresh: %v", err)
		return s
	}
	s.campaigns = loaded
	return s
}

// CreateCampaign allocates the full slot or contribution set up front.
// Slot-based types get their fixed slot count, all open; count-based
// types require a positive target and start at zero.
func (s *CampaignService) CreateCampaign(ctx context.Context, req *campaign.CreateCampaignRequest) (*campaign.Campaign, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	campaignType, err := campaign.ParseType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	config := campaign.Configs[campaignType]

	if !config.SlotBased && req.TargetCount < 1 {
		return nil, fmt.Errorf("%w: target count must be positive", ErrInvalidInput)
	}

	dueDate := req.DueDate
	if dueDate == "" {
		dueDate = s.now().AddDate(0, 0, 30).UTC().Format(time.RFC3339)
	} else if _, err := time.Parse(time.RFC3339, dueDate); err != nil {
		return nil, fmt.Errorf("%w: due date must be RFC 3339", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	shareCode := s.uniqueShareCodeLocked()
	c := &campaign.Campaign{
		ID:        uuid.New().String(),
		Title:     title,
		Type:      campaignType,
		Intention: strings.TrimSpace(req.Intention),
		DueDate:   dueDate,
		ShareCode: shareCode,
		ShareLink: shareLinkScheme + shareCode,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}

	if config.SlotBased {
		c.SlotTotal = config.SlotTotal
		c.Slots = make([]campaign.Slot, config.SlotTotal)
		for i := range c.Slots {
			c.Slots[i] = campaign.Slot{Index: i + 1}
		}
	} else {
		c.TargetCount = req.TargetCount
		c.CurrentCount = 0
		c.Contributions = []campaign.Contribution{}
	}

	s.campaigns = append(s.campaigns, c)
	s.persist(ctx)
	return cloneCampaign(c), nil
}

// ClaimSlot closes an open slot under the given name. Closing is
// one-way; there is no release.
func (s *CampaignService) ClaimSlot(ctx context.Context, id string, slotIndex int, name string) (*campaign.Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findByIDLocked(id)
	if c == nil {
		return nil, ErrCampaignNotFound
	}
	if !c.SlotBased() {
		return nil, fmt.Errorf("%w: campaign is not slot-based", ErrInvalidInput)
	}

	for i := range c.Slots {
		if c.Slots[i].Index != slotIndex {
			continue
		}
		if !c.Slots[i].Open() {
			return nil, ErrSlotTaken
		}
		c.Slots[i].TakenByName = name
		c.Slots[i].TakenAt = s.now().UTC().Format(time.RFC3339)
		s.persist(ctx)
		return cloneCampaign(c), nil
	}
	return nil, ErrSlotNotFound
}

// AddContribution appends a named contribution and advances the
// running count. Contributions past the target are allowed.
func (s *CampaignService) AddContribution(ctx context.Context, id string, name string, count int) (*campaign.Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be positive", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findByIDLocked(id)
	if c == nil {
		return nil, ErrCampaignNotFound
	}
	if c.SlotBased() {
		return nil, fmt.Errorf("%w: campaign is not count-based", ErrInvalidInput)
	}

	c.Contributions = append(c.Contributions, campaign.Contribution{
		Name:  name,
		Count: count,
		At:    s.now().UTC().Format(time.RFC3339),
	})
	c.CurrentCount += count

	s.persist(ctx)
	return cloneCampaign(c), nil
}

// FindByShareCode does a case-insensitive linear scan; first match
// wins.
func (s *CampaignService) FindByShareCode(code string) (*campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findByShareCodeLocked(code)
	if c == nil {
		return nil, ErrCampaignNotFound
	}
	return cloneCampaign(c), nil
}

// JoinByShareCode adds the campaign behind a share code to the list.
// Returns ErrCampaignNotFound for an unknown code and ErrAlreadyJoined
// when the campaign is already present.
func (s *CampaignService) JoinByShareCode(ctx context.Context, code string) (*campaign.Campaign, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: share code is required", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findByShareCodeLocked(code)
	if c == nil {
		return nil, ErrCampaignNotFound
	}
	if s.findByIDLocked(c.ID) != nil {
		return nil, ErrAlreadyJoined
	}

	s.campaigns = append(s.campaigns, c)
	s.persist(ctx)
	return cloneCampaign(c), nil
}

func (s *CampaignService) Campaigns() []*campaign.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*campaign.Campaign, len(s.campaigns))
	for i, c := range s.campaigns {
		out[i] = cloneCampaign(c)
	}
	return out
}

func (s *CampaignService) CampaignByID(id string) (*campaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findByIDLocked(id)
	if c == nil {
		return nil, ErrCampaignNotFound
	}
	return cloneCampaign(c), nil
}

func (s *CampaignService) findByIDLocked(id string) *campaign.Campaign {
	for _, c := range s.campaigns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *CampaignService) findByShareCodeLocked(code string) *campaign.Campaign {
	for _, c := range s.campaigns {
		if strings.EqualFold(c.ShareCode, code) {
			return c
		}
	}
	return nil
}

// uniqueShareCodeLocked regenerates on collision with codes already in
// the list. Codes joined from elsewhere can still collide; lookups
// resolve those first-match.
func (s *CampaignService) uniqueShareCodeLocked() string {
	const maxAttempts = 10
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := s.genCode()
		if s.findByShareCodeLocked(code) == nil {
			return code
		}
	}
	code := s.genCode()
	log.Printf("CampaignService: no collision-free share code after %d attempts, issuing %s; lookups stay first-match", maxAttempts, code)
	return code
}

func (s *CampaignService) persist(ctx context.Context) {
	data, err := json.Marshal(s.campaigns)
	if err != nil {
		log.Printf("CampaignService: failed to marshal campaigns: %v", err)
		return
	}
	if err := s.store.Set(ctx, storage.KeyCampaigns, string(data)); err != nil {
		log.Printf("CampaignService: failed to persist campaigns: %v", err)
	}
}

func cloneCampaign(c *campaign.Campaign) *campaign.Campaign {
	out := *c
	if c.Slots != nil {
		out.Slots = make([]campaign.Slot, len(c.Slots))
		copy(out.Slots, c.Slots)
	}
	if c.Contributions != nil {
		out.Contributions = make([]campaign.Contribution, len(c.Contributions))
		copy(out.Contributions, c.Contributions)
	}
	return &out
}
