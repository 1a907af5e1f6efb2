package database

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"spacedock-search/logger"
	"spacedock-search/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Corpus is the JSON seed format: games, users, mods and packs referencing
// each other by id and username.
type Corpus struct {
	Games []corpusGame `json:"games"`
	Users []corpusUser `json:"users"`
	Mods  []corpusMod  `json:"mods"`
	Packs []corpusPack `json:"packs"`
}

type corpusGame struct {
	ID       uint     `json:"id"`
	Name     string   `json:"name"`
	Short    string   `json:"short"`
	Versions []string `json:"versions"`
}

type corpusUser struct {
	Username    string `json:"username"`
	Public      bool   `json:"public"`
	Description string `json:"description"`
}

type corpusAuthor struct {
	Username string `json:"username"`
	Accepted bool   `json:"accepted"`
}

type corpusVersion struct {
	Version     string `json:"version"`
	GameVersion string `json:"game_version"`
	Default     bool   `json:"default"`
	Downloads   int    `json:"downloads"`
}

type corpusMod struct {
	ID               uint            `json:"id"`
	Name             string          `json:"name"`
	ShortDescription string          `json:"short_description"`
	Description      string          `json:"description"`
	User             string          `json:"user"`
	GameID           uint            `json:"game_id"`
	Published        bool            `json:"published"`
	SourceLink       string          `json:"source_link"`
	Followers        int             `json:"followers"`
	Downloads        int             `json:"downloads"`
	Media            int             `json:"media"`
	Featured         bool            `json:"featured"`
	Created          time.Time       `json:"created"`
	Updated          time.Time       `json:"updated"`
	SharedAuthors    []corpusAuthor  `json:"shared_authors"`
	Versions         []corpusVersion `json:"versions"`
}

type corpusPack struct {
	Name   string `json:"name"`
	User   string `json:"user"`
	GameID uint   `json:"game_id"`
	Mods   []uint `json:"mods"`
}

// Dataset is a corpus resolved into linked models with every id assigned.
type Dataset struct {
	Games    []models.Game
	Users    []models.User
	Mods     []models.Mod
	Packs    []models.ModList
	Featured []models.Featured
}

// LoadCorpus reads a JSON corpus file.
func LoadCorpus(path string) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return ParseCorpus(raw)
}

// ParseCorpus decodes a JSON corpus.
func ParseCorpus(raw []byte) (*Corpus, error) {
	var c Corpus
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus JSON: %w", err)
	}
	return &c, nil
}

// Build resolves names into ids and links associations so the mods can be
// searched and scored without a database.
func (c *Corpus) Build() (*Dataset, error) {
	ds := &Dataset{}

	gameVersionIDs := map[uint]map[string]uint{}
	games := map[uint]*models.Game{}
	var nextGameVersionID uint = 1
	for i, g := range c.Games {
		id := g.ID
		if id == 0 {
			id = uint(i + 1)
		}
		game := models.Game{ID: id, Name: g.Name, Short: g.Short, Active: true}
		gameVersionIDs[id] = map[string]uint{}
		for _, fv := range g.Versions {
			game.Versions = append(game.Versions, models.GameVersion{ID: nextGameVersionID, GameID: id, FriendlyVersion: fv})
			gameVersionIDs[id][fv] = nextGameVersionID
			nextGameVersionID++
		}
		ds.Games = append(ds.Games, game)
	}
	for i := range ds.Games {
		games[ds.Games[i].ID] = &ds.Games[i]
	}

	users := map[string]models.User{}
	for i, u := range c.Users {
		user := models.User{ID: uint(i + 1), Username: u.Username, Public: u.Public, Description: u.Description}
		users[u.Username] = user
		ds.Users = append(ds.Users, user)
	}
	userByName := func(name string) (models.User, error) {
		u, ok := users[name]
		if !ok {
			return models.User{}, fmt.Errorf("unknown user %q", name)
		}
		return u, nil
	}

	var nextVersionID, nextMediaID, nextAuthorID uint = 1, 1, 1
	modIndex := map[uint]int{}
	for i, cm := range c.Mods {
		id := cm.ID
		if id == 0 {
			id = uint(i + 1)
		}
		owner, err := userByName(cm.User)
		if err != nil {
			return nil, fmt.Errorf("mod %q: %w", cm.Name, err)
		}
		game, ok := games[cm.GameID]
		if !ok {
			return nil, fmt.Errorf("mod %q: unknown game %d", cm.Name, cm.GameID)
		}

		mod := models.Mod{
			ID:               id,
			Created:          cm.Created,
			Updated:          cm.Updated,
			UserID:           owner.ID,
			User:             owner,
			GameID:           game.ID,
			Game:             *game,
			Name:             cm.Name,
			ShortDescription: cm.ShortDescription,
			Description:      cm.Description,
			Published:        cm.Published,
			SourceLink:       cm.SourceLink,
			FollowerCount:    cm.Followers,
			DownloadCount:    cm.Downloads,
		}
		for sortIndex, cv := range cm.Versions {
			gvID, ok := gameVersionIDs[game.ID][cv.GameVersion]
			if !ok {
				return nil, fmt.Errorf("mod %q: unknown game version %q", cm.Name, cv.GameVersion)
			}
			v := models.ModVersion{
				ID:              nextVersionID,
				ModID:           id,
				FriendlyVersion: cv.Version,
				GameVersionID:   gvID,
				GameVersion:     models.GameVersion{ID: gvID, GameID: game.ID, FriendlyVersion: cv.GameVersion},
				Created:         cm.Updated,
				SortIndex:       sortIndex,
				DownloadCount:   cv.Downloads,
			}
			if cv.Default {
				defaultID := nextVersionID
				mod.DefaultVersionID = &defaultID
			}
			mod.Versions = append(mod.Versions, v)
			nextVersionID++
		}
		for n := 0; n < cm.Media; n++ {
			mod.Media = append(mod.Media, models.Media{ID: nextMediaID, ModID: id, Type: "image"})
			nextMediaID++
		}
		for _, ca := range cm.SharedAuthors {
			u, err := userByName(ca.Username)
			if err != nil {
				return nil, fmt.Errorf("mod %q shared author: %w", cm.Name, err)
			}
			mod.SharedAuthors = append(mod.SharedAuthors, models.SharedAuthor{
				ID: nextAuthorID, ModID: id, UserID: u.ID, User: u, Accepted: ca.Accepted,
			})
			nextAuthorID++
		}
		if cm.Featured {
			ds.Featured = append(ds.Featured, models.Featured{ModID: id, Created: cm.Created})
		}
		modIndex[id] = len(ds.Mods)
		ds.Mods = append(ds.Mods, mod)
	}

	var nextItemID uint = 1
	for i, cp := range c.Packs {
		owner, err := userByName(cp.User)
		if err != nil {
			return nil, fmt.Errorf("pack %q: %w", cp.Name, err)
		}
		list := models.ModList{ID: uint(i + 1), UserID: owner.ID, GameID: cp.GameID, Name: cp.Name}
		for sortIndex, modID := range cp.Mods {
			idx, ok := modIndex[modID]
			if !ok {
				return nil, fmt.Errorf("pack %q: unknown mod %d", cp.Name, modID)
			}
			item := models.ModListItem{ID: nextItemID, ModID: modID, ModListID: list.ID, SortIndex: sortIndex}
			nextItemID++
			list.Items = append(list.Items, item)

			linked := item
			linked.ModList = models.ModList{ID: list.ID, UserID: list.UserID, GameID: list.GameID, Name: list.Name}
			ds.Mods[idx].ListItems = append(ds.Mods[idx].ListItems, linked)
		}
		ds.Packs = append(ds.Packs, list)
	}

	return ds, nil
}

// SeedDataset inserts a dataset into an empty database. It is a no-op when
// mods already exist.
func SeedDataset(db *gorm.DB, ds *Dataset) error {
	var count int64
	if err := db.Model(&models.Mod{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count existing mods: %w", err)
	}
	if count > 0 {
		logger.Log.Infow("Database already contains mods, skipping seed", zap.Int64("mods", count))
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, g := range ds.Games {
			if err := tx.Create(&g).Error; err != nil {
				return fmt.Errorf("failed to insert game %q: %w", g.Name, err)
			}
		}
		if len(ds.Users) > 0 {
			if err := tx.Create(&ds.Users).Error; err != nil {
				return fmt.Errorf("failed to insert users: %w", err)
			}
		}
		for _, m := range ds.Mods {
			if err := tx.Omit(clause.Associations).Create(&m).Error; err != nil {
				return fmt.Errorf("failed to insert mod %q: %w", m.Name, err)
			}
			for _, v := range m.Versions {
				if err := tx.Omit(clause.Associations).Create(&v).Error; err != nil {
					return fmt.Errorf("failed to insert version of %q: %w", m.Name, err)
				}
			}
			if len(m.Media) > 0 {
				if err := tx.Create(&m.Media).Error; err != nil {
					return fmt.Errorf("failed to insert media of %q: %w", m.Name, err)
				}
			}
			for _, sa := range m.SharedAuthors {
				if err := tx.Omit(clause.Associations).Create(&sa).Error; err != nil {
					return fmt.Errorf("failed to insert shared author of %q: %w", m.Name, err)
				}
			}
		}
		for _, p := range ds.Packs {
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to insert pack %q: %w", p.Name, err)
			}
		}
		for _, f := range ds.Featured {
			if err := tx.Omit(clause.Associations).Create(&f).Error; err != nil {
				return fmt.Errorf("failed to insert featured mod %d: %w", f.ModID, err)
			}
		}

		logger.Log.Infow("Seeded corpus",
			zap.Int("games", len(ds.Games)),
			zap.Int("users", len(ds.Users)),
			zap.Int("mods", len(ds.Mods)),
			zap.Int("packs", len(ds.Packs)),
		)
		return nil
	})
}
