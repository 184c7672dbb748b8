package goals

import (
	"net/http"

	"github.com/chris/household-ledger/pkg/api"
	"github.com/chris/household-ledger/pkg/handlers/respond"
	"github.com/chris/household-ledger/pkg/mapping"
	"github.com/chris/household-ledger/pkg/processor"
	"github.com/go-chi/chi/v5"
)

// GoalsHandler holds the dependencies for savings-goal handlers.
type GoalsHandler struct {
	Processor *processor.Processor
}

// NewGoalsHandler creates a new GoalsHandler.
func NewGoalsHandler(p *processor.Processor) *GoalsHandler {
	return &GoalsHandler{Processor: p}
}

// Routes mounts the handlers on r.
func (h *GoalsHandler) Routes(r chi.Router) {
	r.Post("/goals", h.CreateGoal)
	r.Get("/goals", h.ListGoals)
	r.Get("/goals/{goalId}", h.GetGoal)
	r.Delete("/goals/{goalId}", h.DeleteGoal)
	r.Post("/goals/{goalId}/contributions", h.Contribute)
	r.Post("/goals/{goalId}/achieve", h.Achieve)
	r.Post("/goals/{goalId}/revert", h.Revert)
}

// CreateGoal handles the logic for creating a goal.
func (h *GoalsHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var body api.NewGoal
	if !respond.Decode(w, r, &body) {
		return
	}

	in := processor.CreateGoalInput{
		OwnerID:          mapping.ToDomainOwner(body.OwnerId),
		Title:            body.Title,
		TargetAmount:     body.TargetAmount,
		InitialAccountID: mapping.FromApiString(body.InitialAccountId),
		RegisteredBy:     respond.Member(r),
	}
	if body.InitialAmount != nil {
		in.InitialAmount = *body.InitialAmount
	}

	goal, err := h.Processor.CreateGoal(r.Context(), in)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiGoal(goal))
}

// ListGoals handles the logic for retrieving all goals.
func (h *GoalsHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Processor.Goals(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	out := make([]*api.Goal, len(goals))
	for i := range goals {
		out[i] = mapping.ToApiGoal(&goals[i])
	}
	respond.JSON(w, http.StatusOK, out)
}

// GetGoal handles the logic for retrieving one goal.
func (h *GoalsHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.Processor.Goal(r.Context(), chi.URLParam(r, "goalId"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiGoal(goal))
}

// DeleteGoal removes an active goal and releases its reservations.
func (h *GoalsHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.Processor.DeleteGoal(r.Context(), chi.URLParam(r, "goalId"), respond.Member(r)); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Contribute reserves funds towards the goal.
func (h *GoalsHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	var body api.Contribute
	if !respond.Decode(w, r, &body) {
		return
	}

	goal, err := h.Processor.ContributeToGoal(r.Context(), processor.ContributeInput{
		GoalID:        chi.URLParam(r, "goalId"),
		BankAccountID: body.BankAccountId,
		Amount:        body.Amount,
		RegisteredBy:  respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiGoal(goal))
}

// Achieve spends the goal.
func (h *GoalsHandler) Achieve(w http.ResponseWriter, r *http.Request) {
	var body api.AchieveGoal
	if !respond.Decode(w, r, &body) {
		return
	}

	goal, err := h.Processor.AchieveGoal(r.Context(), processor.AchieveGoalInput{
		GoalID:        chi.URLParam(r, "goalId"),
		ActualCost:    body.ActualCost,
		PaymentCardID: mapping.FromApiString(body.PaymentCardId),
		RegisteredBy:  respond.Member(r),
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiGoal(goal))
}

// Revert undoes an achievement.
func (h *GoalsHandler) Revert(w http.ResponseWriter, r *http.Request) {
	goal, err := h.Processor.RevertGoal(r.Context(), chi.URLParam(r, "goalId"), respond.Member(r))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiGoal(goal))
}
