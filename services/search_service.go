package services

import (
	"context"
	"fmt"
	"strings"

	"spacedock-search/cache"
	"spacedock-search/config"
	"spacedock-search/models"
	"spacedock-search/query"
	"spacedock-search/utils"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize applies when no configured size is available.
	DefaultPageSize = 30

	MaxUserResults = 100
	UserPageSize   = 10
)

// SearchResult is one page of mods plus paging data
type SearchResult struct {
	Mods       []models.Mod
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

func newSearchResult(mods []models.Mod, total int64, page utils.Page) *SearchResult {
	return &SearchResult{
		Mods:       mods,
		Total:      total,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: page.TotalPages,
	}
}

type SearchService struct {
	db    *gorm.DB
	cfg   *config.Config
	cache *cache.TTLCache[string, *SearchResult]
}

// NewSearchService creates a search service. results may be nil to disable caching.
func NewSearchService(db *gorm.DB, cfg *config.Config, results *cache.TTLCache[string, *SearchResult]) *SearchService {
	if results == nil {
		results = cache.NewTTLCache[string, *SearchResult](0)
	}
	return &SearchService{db: db, cfg: cfg, cache: results}
}

// InvalidateCache drops every cached result page.
func (s *SearchService) InvalidateCache() {
	s.cache.Invalidate()
}

// PurgeCache evicts expired result pages.
func (s *SearchService) PurgeCache() int {
	return s.cache.Purge()
}

func cacheKey(kind string, gameID *uint, parts ...interface{}) string {
	game := "*"
	if gameID != nil {
		game = fmt.Sprint(*gameID)
	}
	key := kind + "|" + game
	for _, p := range parts {
		key += fmt.Sprintf("|%v", p)
	}
	return key
}

// normalizeQuery rebuilds text from its terms so queries that parse the same
// share a cache entry. Whitespace inside quoted phrases is kept.
func normalizeQuery(text string) string {
	tokens := query.Tokenize(text)
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		term := tok.Value
		if strings.ContainsAny(term, " \t\r\n") {
			term = `"` + term + `"`
		}
		if tok.Negated {
			term = "-" + term
		}
		terms[i] = term
	}
	return strings.Join(terms, " ")
}

// publishedMods starts a query over published mods, optionally within one game.
func (s *SearchService) publishedMods(ctx context.Context, gameID *uint) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.Mod{}).Where("mods.published = ?", true)
	if gameID != nil {
		tx = tx.Where("mods.game_id = ?", *gameID)
	}
	return tx
}

// gameResolver loads the game list at most once per query.
func (s *SearchService) gameResolver(ctx context.Context) gameResolver {
	var games []models.Game
	loaded := false
	return func(name string) ([]uint, error) {
		if !loaded {
			if err := s.db.WithContext(ctx).Find(&games).Error; err != nil {
				return nil, fmt.Errorf("failed to load games: %w", err)
			}
			loaded = true
		}
		var ids []uint
		for _, g := range games {
			if query.MatchGameName(name, g) {
				ids = append(ids, g.ID)
			}
		}
		return ids, nil
	}
}

// paged counts tx, clamps the page and loads it in score order.
func (s *SearchService) paged(tx *gorm.DB, order string, page, pageSize int) (*SearchResult, error) {
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count mods: %w", err)
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}
	p := utils.Paginate(total, page, pageSize, s.cfg.PageSize)

	var mods []models.Mod
	err := withPreloads(tx, listingPreloads).
		Order(order).
		Offset(p.Offset).
		Limit(p.Size).
		Find(&mods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load mods: %w", err)
	}
	return newSearchResult(mods, total, p), nil
}

// SearchMods runs a query against published mods, best score first.
// Out-of-range pages are clamped to the nearest valid page.
func (s *SearchService) SearchMods(ctx context.Context, gameID *uint, text string, page, pageSize int) (*SearchResult, error) {
	key := cacheKey("search", gameID, normalizeQuery(text), page, pageSize)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}
	gen := s.cache.Generation()

	pred, err := query.Parse(text)
	if err != nil {
		return nil, err
	}
	where, args, err := buildWhere(pred, s.gameResolver(ctx))
	if err != nil {
		return nil, err
	}

	result, err := s.paged(s.publishedMods(ctx, gameID).Where(where, args...), "mods.score DESC, mods.id ASC", page, pageSize)
	if err != nil {
		return nil, err
	}
	s.cache.SetIfGeneration(key, result, gen)
	return result, nil
}

// TypeaheadMods matches the text against mod names only and returns every hit.
func (s *SearchService) TypeaheadMods(ctx context.Context, gameID *uint, text string) ([]models.Mod, error) {
	text = strings.TrimSpace(text)
	tx := s.publishedMods(ctx, gameID)
	if text != "" {
		where, args, err := buildWhere(query.FieldContains{Field: query.FieldName, Text: text}, nil)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(where, args...)
	}

	var mods []models.Mod
	if err := withPreloads(tx, listingPreloads).Order("mods.score DESC, mods.id ASC").Find(&mods).Error; err != nil {
		return nil, fmt.Errorf("failed to load typeahead mods: %w", err)
	}
	return mods, nil
}

// SearchCorpus evaluates a query in memory over mods, with the same paging
// and ordering rules as SearchMods.
func SearchCorpus(mods []models.Mod, gameID *uint, text string, page, pageSize int) (*SearchResult, error) {
	pred, err := query.Parse(text)
	if err != nil {
		return nil, err
	}

	hits := utils.Filter(mods, func(m *models.Mod) bool {
		if !m.Published {
			return false
		}
		if gameID != nil && m.GameID != *gameID {
			return false
		}
		return pred.Match(m)
	})
	utils.SortByScore(hits, utils.Descending)

	p := utils.Paginate(int64(len(hits)), page, pageSize, DefaultPageSize)
	start, end := p.Window(len(hits))
	return newSearchResult(hits[start:end], int64(len(hits)), p), nil
}

// =============================================================================
// Browse
// =============================================================================

// BrowseParams selects an ordering and page for the generic browse listing.
type BrowseParams struct {
	GameID  *uint
	OrderBy string // name, updated or created
	Order   string // asc or desc
	Page    int
	Count   int
}

var browseColumns = map[string]string{
	"name":    "mods.name",
	"updated": "mods.updated",
	"created": "mods.created",
}

// Browse lists published mods in a caller-chosen order.
func (s *SearchService) Browse(ctx context.Context, params BrowseParams) (*SearchResult, error) {
	column, ok := browseColumns[strings.ToLower(params.OrderBy)]
	if !ok {
		column = browseColumns["created"]
	}
	direction := "DESC"
	if strings.EqualFold(params.Order, "asc") {
		direction = "ASC"
	}

	count := params.Count
	if count < 1 {
		count = s.cfg.PageSize
	}
	return s.paged(s.publishedMods(ctx, params.GameID), column+" "+direction+", mods.id ASC", params.Page, count)
}

// TopMods returns the highest scoring mods.
func (s *SearchService) TopMods(ctx context.Context, gameID *uint, page, count int) (*SearchResult, error) {
	key := cacheKey("top", gameID, page, count)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}
	gen := s.cache.Generation()
	result, err := s.paged(s.publishedMods(ctx, gameID), "mods.score DESC, mods.id ASC", page, count)
	if err != nil {
		return nil, err
	}
	s.cache.SetIfGeneration(key, result, gen)
	return result, nil
}

// NewMods returns the most recently created mods.
func (s *SearchService) NewMods(ctx context.Context, gameID *uint, page, count int) (*SearchResult, error) {
	return s.paged(s.publishedMods(ctx, gameID), "mods.created DESC, mods.id ASC", page, count)
}

// UpdatedMods returns mods that have shipped more than their first version,
// most recently updated first.
func (s *SearchService) UpdatedMods(ctx context.Context, gameID *uint, page, count int) (*SearchResult, error) {
	tx := s.publishedMods(ctx, gameID).Where(
		"EXISTS (SELECT 1 FROM mod_versions mv WHERE mv.mod_id = mods.id " +
			"AND (mods.default_version_id IS NULL OR mv.id <> mods.default_version_id))")
	return s.paged(tx, "mods.updated DESC, mods.id ASC", page, count)
}

// FeaturedMods returns featured mods, newest feature first.
func (s *SearchService) FeaturedMods(ctx context.Context, gameID *uint, limit int) ([]models.Mod, error) {
	if limit < 1 || limit > s.cfg.MaxPageSize {
		limit = s.cfg.PageSize
	}

	var featured []models.Featured
	tx := s.db.WithContext(ctx).
		Joins("JOIN mods ON mods.id = featured_mods.mod_id").
		Where("mods.published = ?", true)
	if gameID != nil {
		tx = tx.Where("mods.game_id = ?", *gameID)
	}
	err := withPreloads(tx, []string{"Mod.User", "Mod.Game", "Mod.Versions.GameVersion"}).
		Order("featured_mods.created DESC, featured_mods.id DESC").
		Limit(limit).
		Find(&featured).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load featured mods: %w", err)
	}

	mods := make([]models.Mod, len(featured))
	for i := range featured {
		mods[i] = featured[i].Mod
	}
	return mods, nil
}

// =============================================================================
// User Search
// =============================================================================

// SearchUsers matches public users whose name or description contains any
// of the words in text. page is 0-based.
func (s *SearchService) SearchUsers(ctx context.Context, text string, page int) ([]models.User, error) {
	tx := s.db.WithContext(ctx).Model(&models.User{}).Where("public = ?", true)

	terms := strings.Fields(text)
	if len(terms) > 0 {
		clauses := make([]string, 0, len(terms))
		args := make([]interface{}, 0, 2*len(terms))
		for _, term := range terms {
			pattern := containsPattern(term)
			clauses = append(clauses, `(casefold(username) LIKE ? ESCAPE '\' OR casefold(description) LIKE ? ESCAPE '\')`)
			args = append(args, pattern, pattern)
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	var users []models.User
	if err := tx.Order("username").Limit(MaxUserResults).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	if page < 0 {
		page = 0
	}
	start := page * UserPageSize
	if start >= len(users) {
		return []models.User{}, nil
	}
	end := start + UserPageSize
	if end > len(users) {
		end = len(users)
	}
	return users[start:end], nil
}

// UserMods lists a user's published mods, newest first.
func (s *SearchService) UserMods(ctx context.Context, userID uint) ([]models.Mod, error) {
	var mods []models.Mod
	err := withPreloads(s.db.WithContext(ctx), listingPreloads).
		Where("user_id = ? AND published = ?", userID, true).
		Order("created DESC").
		Find(&mods).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load mods of user %d: %w", userID, err)
	}
	return mods, nil
}
