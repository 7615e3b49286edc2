package dashboard

import (
	"testing"

	"crewboard/models"
)

func TestComputeStats(t *testing.T) {
	projects := []models.Project{{ID: 1}, {ID: 2}}
	tasks := []models.Task{
		{ID: 1, AssignedTo: 7, Status: "done"},
		{ID: 2, AssignedTo: 7, Status: "todo"},
		{ID: 3, AssignedTo: 7, Status: "in-progress"},
		{ID: 4, AssignedTo: 7, Status: "done"},
		{ID: 5, AssignedTo: 9, Status: "todo"},
	}

	stats := Compute(projects, tasks, 7)
	if stats.ProjectCount != 2 {
		t.Errorf("ProjectCount = %d, want 2", stats.ProjectCount)
	}
	if stats.TaskCount != 5 {
		t.Errorf("TaskCount = %d, want 5", stats.TaskCount)
	}
	if stats.MyTaskCount != 4 {
		t.Errorf("MyTaskCount = %d, want 4", stats.MyTaskCount)
	}
	if stats.MyPendingTasks != 2 || stats.MyCompletedTasks != 2 {
		t.Errorf("pending/completed = %d/%d, want 2/2", stats.MyPendingTasks, stats.MyCompletedTasks)
	}
	if stats.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want 50", stats.CompletionRate)
	}
	if stats.TasksByStatus["done"] != 2 || stats.TasksByStatus["todo"] != 2 || stats.TasksByStatus["in-progress"] != 1 {
		t.Errorf("TasksByStatus = %v", stats.TasksByStatus)
	}
}

func TestComputeStatsNoTasks(t *testing.T) {
	stats := Compute(nil, nil, 7)
	if stats.CompletionRate != 0 {
		t.Errorf("CompletionRate with no tasks = %v, want 0", stats.CompletionRate)
	}
	if stats.MyTaskCount != 0 || stats.ProjectCount != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}
}
