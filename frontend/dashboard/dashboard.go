package dashboard

import (
	"net/http"

	sessioncontext "crewboard/frontend/shared/context"
	"crewboard/frontend/shared/respond"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

// Stats is the dashboard payload, computed from the live store
// snapshots rather than fresh queries.
type Stats struct {
	ProjectCount     int            `json:"projectCount"`
	TaskCount        int            `json:"taskCount"`
	MyTaskCount      int            `json:"myTaskCount"`
	MyPendingTasks   int            `json:"myPendingTasks"`
	MyCompletedTasks int            `json:"myCompletedTasks"`
	CompletionRate   float64        `json:"completionRate"`
	TasksByStatus    map[string]int `json:"tasksByStatus"`
}

// Compute derives dashboard stats for one user. Completion rate is the
// percentage of the user's tasks in "done", 0 when they have none.
func Compute(projects []models.Project, tasks []models.Task, userID int64) Stats {
	stats := Stats{
		ProjectCount:  len(projects),
		TaskCount:     len(tasks),
		TasksByStatus: make(map[string]int),
	}
	for _, task := range tasks {
		stats.TasksByStatus[task.Status]++
		if task.AssignedTo != userID {
			continue
		}
		stats.MyTaskCount++
		if task.Status == "done" {
			stats.MyCompletedTasks++
		} else {
			stats.MyPendingTasks++
		}
	}
	if stats.MyTaskCount > 0 {
		stats.CompletionRate = float64(stats.MyCompletedTasks) / float64(stats.MyTaskCount) * 100
	}
	return stats
}

func DashboardQueryHandler(projectsStore *watch.Store[models.Project], tasksStore *watch.Store[models.Task]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		stats := Compute(projectsStore.Snapshot(), tasksStore.Snapshot(), session.UserID)
		respond.JSON(w, http.StatusOK, stats)
	}
}
