package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"synthesized/web/internal/service"
)

// User-facing messages, kept stable across the logbook forms.
const (
	msgInvalidDate       = "Not a valid date"
	msgInvalidAddInputs  = "Invalid form inputs: Sets, repetitions and weight must have a minimum value of 1."
	msgInvalidEditInputs = "Invalid form inputs: Sets, repetitions and weight must have a minimum value of 1. Name can not be longer than 255 characters."
	msgNameRequired      = "Name is required"
	msgSessionMissing    = "Training session does not exist"
	msgDeleteFailed      = "Deleting session exercise failed. Please try again later"
	msgCreateFailed      = "Creating the training session failed. Please try again later"
	msgStoreFailed       = "Saving your changes failed. Please try again later"
	msgExercisesAdded    = "Exercises added successfully"
	msgExerciseEdited    = "Exercise edited successfully"
	msgExerciseDeleted   = "Exercise deleted from session"
)

// LogbookHandler serves the logbook list and session detail pages and their
// form actions.
type LogbookHandler struct {
	logbookService service.LogbookService
}

// NewLogbookHandler creates a new LogbookHandler.
func NewLogbookHandler(logbookService service.LogbookService) *LogbookHandler {
	return &LogbookHandler{logbookService: logbookService}
}

// List renders the logbook overview: all sessions newest first plus the
// per-exercise progress series for the insights tab.
func (h *LogbookHandler) List(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		redirectToLogin(c)
		return
	}

	sessions, err := h.logbookService.ListSessions(c.Request.Context(), user.ID)
	notice, errMsg := flash(c)
	if err != nil {
		log.Printf("ERROR: listing sessions for %s: %v", user.ID, err)
		errMsg = "Loading your logbook failed. Please try again later"
	}

	c.HTML(http.StatusOK, "logbook.tmpl", gin.H{
		"Title":    "Synthesized | Your Personal Logbook",
		"User":     user,
		"Sessions": sessions,
		"Series":   h.logbookService.ExerciseSeries(sessions),
		"Notice":   notice,
		"Error":    errMsg,
	})
}

// CreateSession handles the new-training-log form.
func (h *LogbookHandler) CreateSession(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		redirectToLogin(c)
		return
	}

	session, err := h.logbookService.CreateSession(c.Request.Context(), user.ID, c.PostForm("date"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			redirectWithError(c, "/logbook", msgInvalidDate)
			return
		}
		log.Printf("ERROR: creating session for %s: %v", user.ID, err)
		redirectWithError(c, "/logbook", msgCreateFailed)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/logbook/%d", session.ID))
}

// ShowSession renders one session's detail page. A missing or foreign
// session lands back on the logbook list.
func (h *LogbookHandler) ShowSession(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		redirectToLogin(c)
		return
	}

	sessionID, err := strconv.ParseInt(c.Param("sessionId"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/logbook")
		return
	}

	detail, err := h.logbookService.GetSessionDetail(c.Request.Context(), user.ID, sessionID)
	if err != nil {
		if !errors.Is(err, service.ErrSessionNotFound) {
			log.Printf("ERROR: loading session %d for %s: %v", sessionID, user.ID, err)
		}
		c.Redirect(http.StatusFound, "/logbook")
		return
	}

	notice, errMsg := flash(c)
	c.HTML(http.StatusOK, "logbook_session.tmpl", gin.H{
		"Title":   "Synthesized | Your Personal Logbook",
		"User":    user,
		"Session": detail.Session,
		"Catalog": detail.Catalog,
		// Blank rows rendered on the add-exercises form.
		"RowIndexes": []int{0, 1, 2},
		"Notice":     notice,
		"Error":      errMsg,
	})
}

// SessionAction multiplexes the session detail form: the delete_self flag
// deletes the whole session, otherwise the submitted rows are added to it.
func (h *LogbookHandler) SessionAction(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		redirectToLogin(c)
		return
	}

	sessionID, err := strconv.ParseInt(c.Param("sessionId"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/logbook")
		return
	}
	sessionPath := fmt.Sprintf("/logbook/%d", sessionID)

	if c.PostForm("delete_self") != "" {
		err := h.logbookService.DeleteSession(c.Request.Context(), user.ID, sessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				c.Redirect(http.StatusSeeOther, "/logbook")
				return
			}
			log.Printf("ERROR: deleting session %d for %s: %v", sessionID, user.ID, err)
			redirectWithError(c, sessionPath, msgStoreFailed)
			return
		}
		c.Redirect(http.StatusSeeOther, "/logbook")
		return
	}

	rows, ok := parseExerciseRows(c)
	if !ok {
		redirectWithError(c, sessionPath, msgInvalidAddInputs)
		return
	}

	err = h.logbookService.AddExercises(c.Request.Context(), user.ID, sessionID, rows)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			redirectWithError(c, sessionPath, msgInvalidAddInputs)
		case errors.Is(err, service.ErrSessionNotFound):
			c.Redirect(http.StatusSeeOther, "/logbook")
		default:
			log.Printf("ERROR: adding exercises to session %d for %s: %v", sessionID, user.ID, err)
			redirectWithError(c, sessionPath, msgStoreFailed)
		}
		return
	}

	redirectWithNotice(c, sessionPath, msgExercisesAdded)
}

// EditSessionExercise handles the edit dialog form posted to /logbook/edit.
func (h *LogbookHandler) EditSessionExercise(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		redirectToLogin(c)
		return
	}

	back := backPath(c)

	id, err := strconv.ParseInt(c.PostForm("session-exercise-id"), 10, 64)
	if err != nil {
		redirectWithError(c, back, msgSessionMissing)
		return
	}

	name := c.PostForm("exercise-name")
	if name == "" {
		redirectWithError(c, back, msgNameRequired)
		return
	}

	row, ok := parseExerciseRow(c, name, "exercise-sets", "exercise-reps", "exercise-break_time")
	if !ok {
		redirectWithError(c, back, msgInvalidEditInputs)
		return
	}

	err = h.logbookService.EditSessionExercise(c.Request.Context(), user.ID, id, row)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidationFailed):
			redirectWithError(c, back, msgInvalidEditInputs)
		case errors.Is(err, service.ErrSessionExerciseNotFound):
			redirectWithError(c, back, msgSessionMissing)
		default:
			log.Printf("ERROR: editing session exercise %d for %s: %v", id, user.ID, err)
			redirectWithError(c, back, msgStoreFailed)
		}
		return
	}

	redirectWithNotice(c, back, msgExerciseEdited)
}

// DeleteSessionExercise handles the delete button posted to /logbook/delete.
func (h *LogbookHandler) DeleteSessionExercise(c *gin.Context) {
	user, err := currentUser(c)
	if err != nil {
		redirectToLogin(c)
		return
	}

	back := backPath(c)

	id, err := strconv.ParseInt(c.PostForm("session-exercise-id"), 10, 64)
	if err != nil {
		redirectWithError(c, back, msgDeleteFailed)
		return
	}

	if err := h.logbookService.DeleteSessionExercise(c.Request.Context(), user.ID, id); err != nil {
		// A foreign or missing row gets the same generic message; the
		// caller learns nothing about other users' ids.
		if !errors.Is(err, service.ErrSessionExerciseNotFound) {
			log.Printf("ERROR: deleting session exercise %d for %s: %v", id, user.ID, err)
		}
		redirectWithError(c, back, msgDeleteFailed)
		return
	}

	redirectWithNotice(c, back, msgExerciseDeleted)
}

// backPath resolves where an edit/delete action should land afterwards:
// the session page the form came from, or the logbook list.
func backPath(c *gin.Context) string {
	if id, err := strconv.ParseInt(c.PostForm("training-session-id"), 10, 64); err == nil {
		return fmt.Sprintf("/logbook/%d", id)
	}
	return "/logbook"
}

// parseExerciseRows zips the repeated form fields into typed rows, in
// submission order. Returns false on a non-numeric value in any numeric
// field.
func parseExerciseRows(c *gin.Context) ([]service.ExerciseInput, bool) {
	names := c.PostFormArray("exercise-name")
	sets := c.PostFormArray("exercise-sets")
	reps := c.PostFormArray("exercise-reps")
	breaks := c.PostFormArray("exercise-break_time")

	rows := make([]service.ExerciseInput, 0, len(names))
	for i, name := range names {
		row := service.ExerciseInput{Name: name}
		var ok bool
		if row.Sets, ok = optionalInt(at(sets, i)); !ok {
			return nil, false
		}
		if row.Reps, ok = optionalInt(at(reps, i)); !ok {
			return nil, false
		}
		if row.BreakTime, ok = optionalInt(at(breaks, i)); !ok {
			return nil, false
		}
		rows = append(rows, row)
	}
	return rows, true
}

func parseExerciseRow(c *gin.Context, name, setsKey, repsKey, breakKey string) (service.ExerciseInput, bool) {
	row := service.ExerciseInput{Name: name}
	var ok bool
	if row.Sets, ok = optionalInt(c.PostForm(setsKey)); !ok {
		return row, false
	}
	if row.Reps, ok = optionalInt(c.PostForm(repsKey)); !ok {
		return row, false
	}
	if row.BreakTime, ok = optionalInt(c.PostForm(breakKey)); !ok {
		return row, false
	}
	return row, true
}

func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

// optionalInt maps an empty field to nil and a malformed one to failure.
func optionalInt(value string) (*int, bool) {
	if value == "" {
		return nil, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, false
	}
	return &n, true
}
