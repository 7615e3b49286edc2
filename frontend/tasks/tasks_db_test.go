package tasks

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"

	"crewboard/frontend/login"
	"crewboard/frontend/projects"
	"crewboard/infrastructure/activity"
	"crewboard/infrastructure/sqlite"
	"crewboard/infrastructure/watch"
	"crewboard/models"
)

func openTasksTestDB(t *testing.T) (*sqlite.DB, int64, int64) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "tasks-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := login.UpsertUser(context.Background(), db, "Admin", "admin@example.com", "admin", "Admin123!Strong"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	var userID int64
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT id FROM users WHERE email = ?`, "admin@example.com").Scan(ctx, &userID)
	})
	if err != nil {
		t.Fatalf("load admin id: %v", err)
	}
	project, err := projects.Create(context.Background(), db, watch.NewHub(), userID, projects.CreateInput{Name: "Launch"})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return db, userID, project.ID
}

func activityEvents(t *testing.T, db *sqlite.DB, taskID int64) []models.TaskActivity {
	t.Helper()
	entries, err := ActivityForTask(context.Background(), db, taskID)
	if err != nil {
		t.Fatalf("load activity: %v", err)
	}
	return entries
}

func TestCreateRecordsCreationActivity(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)
	hub := watch.NewHub()
	svc := activity.NewService()

	task, err := Create(context.Background(), db, hub, svc, userID, CreateInput{
		ProjectID:  projectID,
		Title:      "Write launch checklist",
		AssignedTo: userID,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Priority != "medium" {
		t.Errorf("default priority = %q, want medium", task.Priority)
	}
	if task.Status != "todo" {
		t.Errorf("default status = %q, want todo", task.Status)
	}

	entries := activityEvents(t, db, task.ID)
	if len(entries) != 1 {
		t.Fatalf("activity entries = %d, want 1", len(entries))
	}
	if entries[0].EventType != activity.EventTaskCreated {
		t.Errorf("event type = %q, want %q", entries[0].EventType, activity.EventTaskCreated)
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)

	_, err := Create(context.Background(), db, watch.NewHub(), activity.NewService(), userID, CreateInput{
		ProjectID: projectID,
	})
	if err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestStatusChangeAppendsSingleActivityEntry(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)
	hub := watch.NewHub()
	svc := activity.NewService()

	task, err := Create(context.Background(), db, hub, svc, userID, CreateInput{
		ProjectID: projectID,
		Title:     "Move me across the board",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	tasksCh, cancel := hub.Watch(watch.Tasks)
	defer cancel()
	drain(tasksCh)

	if err := UpdateStatus(context.Background(), db, hub, svc, task.ID, userID, "done"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	updated, err := LoadByID(context.Background(), db, task.ID)
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if updated.Status != "done" {
		t.Errorf("status = %q, want done", updated.Status)
	}

	entries := activityEvents(t, db, task.ID)
	var statusEvents []models.TaskActivity
	for _, e := range entries {
		if e.EventType == activity.EventStatusChanged {
			statusEvents = append(statusEvents, e)
		}
	}
	if len(statusEvents) != 1 {
		t.Fatalf("status_changed entries = %d, want 1", len(statusEvents))
	}
	metadata := decodeMetadata(statusEvents[0])
	if metadata["status"] != "done" {
		t.Errorf("metadata status = %v, want done", metadata["status"])
	}

	select {
	case <-tasksCh:
	default:
		t.Error("expected tasks change notification after status move")
	}
}

func TestStatusChangeToSameStatusIsNoOp(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)
	hub := watch.NewHub()
	svc := activity.NewService()

	task, err := Create(context.Background(), db, hub, svc, userID, CreateInput{
		ProjectID: projectID,
		Title:     "Hold position",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	before := len(activityEvents(t, db, task.ID))

	tasksCh, cancel := hub.Watch(watch.Tasks)
	defer cancel()
	drain(tasksCh)

	if err := UpdateStatus(context.Background(), db, hub, svc, task.ID, userID, "todo"); err != nil {
		t.Fatalf("no-op status update: %v", err)
	}

	after := len(activityEvents(t, db, task.ID))
	if after != before {
		t.Errorf("activity entries grew from %d to %d on no-op status move", before, after)
	}
	select {
	case <-tasksCh:
		t.Error("no-op status move should not notify the tasks collection")
	default:
	}
}

func TestStatusChangeRejectsUnknownStatus(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)
	hub := watch.NewHub()
	svc := activity.NewService()

	task, err := Create(context.Background(), db, hub, svc, userID, CreateInput{
		ProjectID: projectID,
		Title:     "Strict columns",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := UpdateStatus(context.Background(), db, hub, svc, task.ID, userID, "archived"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestAddCommentRecordsCommentAndActivity(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)
	hub := watch.NewHub()
	svc := activity.NewService()

	task, err := Create(context.Background(), db, hub, svc, userID, CreateInput{
		ProjectID: projectID,
		Title:     "Discuss rollout",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	comment, err := AddComment(context.Background(), db, hub, svc, task.ID, userID, "Shipping Friday.")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.ID == 0 {
		t.Fatal("comment ID not assigned")
	}

	comments, err := CommentsForTask(context.Background(), db, task.ID)
	if err != nil {
		t.Fatalf("load comments: %v", err)
	}
	if len(comments) != 1 || comments[0].Message != "Shipping Friday." {
		t.Fatalf("comments = %+v, want single 'Shipping Friday.'", comments)
	}

	entries := activityEvents(t, db, task.ID)
	var commentEvents []models.TaskActivity
	for _, e := range entries {
		if e.EventType == activity.EventCommentAdded {
			commentEvents = append(commentEvents, e)
		}
	}
	if len(commentEvents) != 1 {
		t.Fatalf("comment_added entries = %d, want 1", len(commentEvents))
	}
	metadata := decodeMetadata(commentEvents[0])
	if _, ok := metadata["commentId"]; !ok {
		t.Errorf("comment_added metadata missing commentId: %v", metadata)
	}
}

func TestAddCommentRejectsEmptyMessage(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)
	hub := watch.NewHub()
	svc := activity.NewService()

	task, err := Create(context.Background(), db, hub, svc, userID, CreateInput{
		ProjectID: projectID,
		Title:     "Quiet task",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := AddComment(context.Background(), db, hub, svc, task.ID, userID, "   "); err == nil {
		t.Fatal("expected error for blank comment")
	}
}

func TestUpdateRecordsChangedFieldsOnly(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)
	hub := watch.NewHub()
	svc := activity.NewService()

	task, err := Create(context.Background(), db, hub, svc, userID, CreateInput{
		ProjectID: projectID,
		Title:     "Original title",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	newTitle := "Revised title"
	highPriority := "high"
	err = Update(context.Background(), db, hub, svc, task.ID, userID, UpdateInput{
		Title:    &newTitle,
		Priority: &highPriority,
	})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}

	updated, err := LoadByID(context.Background(), db, task.ID)
	if err != nil {
		t.Fatalf("reload task: %v", err)
	}
	if updated.Title != "Revised title" || updated.Priority != "high" {
		t.Errorf("task after update = %+v", updated)
	}

	entries := activityEvents(t, db, task.ID)
	last := entries[len(entries)-1]
	if last.EventType != activity.EventTaskUpdated {
		t.Fatalf("last event = %q, want %q", last.EventType, activity.EventTaskUpdated)
	}
	metadata := decodeMetadata(last)
	if metadata["title"] != "Revised title" {
		t.Errorf("metadata title = %v", metadata["title"])
	}
	if metadata["priority"] != "high" {
		t.Errorf("metadata priority = %v", metadata["priority"])
	}
	if _, ok := metadata["description"]; ok {
		t.Error("metadata includes description even though it was not changed")
	}
}

func TestUpdateWithNoFieldsFails(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)
	hub := watch.NewHub()
	svc := activity.NewService()

	task, err := Create(context.Background(), db, hub, svc, userID, CreateInput{
		ProjectID: projectID,
		Title:     "Untouched",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if err := Update(context.Background(), db, hub, svc, task.ID, userID, UpdateInput{}); err == nil {
		t.Fatal("expected error for empty update")
	}
}

func TestDeleteRemovesCommentsAndActivity(t *testing.T) {
	db, userID, projectID := openTasksTestDB(t)
	hub := watch.NewHub()
	svc := activity.NewService()

	task, err := Create(context.Background(), db, hub, svc, userID, CreateInput{
		ProjectID: projectID,
		Title:     "Short-lived",
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := AddComment(context.Background(), db, hub, svc, task.ID, userID, "Soon gone."); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	if err := Delete(context.Background(), db, hub, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}

	if _, err := LoadByID(context.Background(), db, task.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("load deleted task: got %v, want sql.ErrNoRows", err)
	}
	comments, err := CommentsForTask(context.Background(), db, task.ID)
	if err != nil {
		t.Fatalf("load comments: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("comments survived task delete: %+v", comments)
	}
	entries := activityEvents(t, db, task.ID)
	if len(entries) != 0 {
		t.Errorf("activity survived task delete: %+v", entries)
	}
}

func drain(ch <-chan struct{}) {
	select {
	case <-ch:
	default:
	}
}
