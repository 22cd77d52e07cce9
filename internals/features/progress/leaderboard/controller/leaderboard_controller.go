package controller

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"englishku_backend/internals/features/progress/leaderboard/service"
	helper "englishku_backend/internals/helpers"
)

// NameLookup fills in display names for ranked users.
type NameLookup interface {
	DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type LeaderboardController struct {
	Board service.Board
	Names NameLookup
}

func NewLeaderboardController(board service.Board, names NameLookup) *LeaderboardController {
	return &LeaderboardController{Board: board, Names: names}
}

type entryView struct {
	service.Entry
	DisplayName string `json:"display_name,omitempty"`
}

type boardView struct {
	Board   string      `json:"board"`
	Entries []entryView `json:"entries"`
	MyRank  int64       `json:"my_rank"`
	MyScore int64       `json:"my_score"`
}

// GET /api/u/leaderboard/:board?limit=10
func (ctrl *LeaderboardController) Get(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	board := utils.CopyString(c.Params("board"))
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	ctx := c.UserContext()

	top, err := ctrl.Board.Top(ctx, board, int64(limit))
	if err != nil {
		return mapError(c, err)
	}
	rank, score, err := ctrl.Board.Rank(ctx, board, userID)
	if err != nil {
		return mapError(c, err)
	}

	out := boardView{Board: board, Entries: make([]entryView, 0, len(top)), MyRank: rank, MyScore: score}
	names := ctrl.names(ctx, top)
	for _, e := range top {
		out.Entries = append(out.Entries, entryView{Entry: e, DisplayName: names[e.UserID]})
	}
	return helper.JsonOK(c, "ok", out)
}

func (ctrl *LeaderboardController) names(ctx context.Context, top []service.Entry) map[uuid.UUID]string {
	if ctrl.Names == nil || len(top) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(top))
	for _, e := range top {
		ids = append(ids, e.UserID)
	}
	names, err := ctrl.Names.DisplayNames(ctx, ids)
	if err != nil {
		log.Printf("[WARN] leaderboard names: %v", err)
		return nil
	}
	return names
}

func mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrUnknownBoard) {
		return helper.JsonError(c, fiber.StatusNotFound, "Unknown leaderboard")
	}
	log.Println("[ERROR] leaderboard:", err)
	return helper.JsonError(c, fiber.StatusBadGateway, "Leaderboard is unavailable")
}
