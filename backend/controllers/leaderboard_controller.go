package controllers

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"learnio/backend/config"
	"learnio/backend/store"
	"learnio/backend/utils"
)

const (
	leaderboardCacheKey = "leaderboard"
	leaderboardCacheTTL = time.Minute
)

type LeaderboardEntry struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Points int    `json:"points"`
	Level  int    `json:"level"`
	Streak int    `json:"streak"`
}

type LeaderboardController struct {
	Store store.DocumentStore
	KV    *store.KV
	Cfg   *config.Config
}

func NewLeaderboardController(st store.DocumentStore, kv *store.KV, cfg *config.Config) *LeaderboardController {
	return &LeaderboardController{Store: st, KV: kv, Cfg: cfg}
}

// GetLeaderboard godoc
// @Summary Top users by points
// @Tags leaderboard
// @Produce json
// @Param limit query int false "Number of entries" default(10)
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /leaderboard [get]
func (lc *LeaderboardController) GetLeaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 {
		limit = 10
	}

	var entries []LeaderboardEntry
	if !lc.KV.Get(leaderboardCacheKey, &entries) {
		docs, err := lc.Store.GetCollection(c.Context(), "users")
		if err != nil {
			return utils.InternalServerError(c, "Could not load leaderboard")
		}

		entries = make([]LeaderboardEntry, 0, len(docs))
		for _, doc := range docs {
			entry := LeaderboardEntry{UID: doc.ID}
			raw, err := json.Marshal(doc.Data)
			if err != nil {
				continue
			}
			if err := json.Unmarshal(raw, &entry); err != nil {
				continue
			}
			entry.UID = doc.ID
			entries = append(entries, entry)
		}

		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Points != entries[j].Points {
				return entries[i].Points > entries[j].Points
			}
			return entries[i].Name < entries[j].Name
		})

		lc.KV.Set(leaderboardCacheKey, entries, leaderboardCacheTTL)
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}

	return c.JSON(fiber.Map{
		"leaderboard": entries,
	})
}
