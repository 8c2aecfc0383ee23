package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/store"
)

func main() {
	ctx := context.Background()

	// Setup temporary DB
	tmpDir, err := os.MkdirTemp("", "tasktree-verify")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	db, err := store.NewSQLiteStore(filepath.Join(tmpDir, store.DefaultDBName))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// C depends on A and B, B depends on A
	a := task.NewTask("task-A")
	a.Title = "Engine"
	b := task.NewTask("task-B")
	b.Title = "Fuselage"
	b.DependsOn = []string{"task-A"}
	c := task.NewTask("task-C")
	c.Title = "Assembly"
	c.DependsOn = []string{"task-A", "task-B"}

	fmt.Println("Saving graph with dependencies: C->(A,B), B->A")
	if err := db.Save(ctx, task.Graph{a.ID: a, b.ID: b, c.ID: c}); err != nil {
		log.Fatalf("Save failed: %v", err)
	}

	g, err := db.Load(ctx)
	if err != nil {
		log.Fatalf("Load failed: %v", err)
	}
	view, err := task.Resolve(g)
	if err != nil {
		log.Fatalf("Resolve failed: %v", err)
	}
	for _, t := range view.Sorted() {
		fmt.Printf("Task %s (%s): Deps=%v Blocked=%v\n", t.ID, t.Title, t.DependsOn, t.IsBlocked)
	}

	if view["task-A"].IsBlocked {
		log.Fatal("Task A should not be blocked")
	}
	if !view["task-B"].IsBlocked || !view["task-C"].IsBlocked {
		log.Fatal("Tasks B and C should be blocked until A is complete")
	}

	fmt.Println("Running Topological Sort...")
	sorted, err := task.TopologicalSort(view)
	if err != nil {
		log.Fatalf("TopologicalSort failed: %v", err)
	}
	for i, t := range sorted {
		fmt.Printf("%d: %s\n", i, t.Title)
	}
	if sorted[0].ID != "task-A" || sorted[1].ID != "task-B" || sorted[2].ID != "task-C" {
		log.Fatalf("Expected order A, B, C, got %s, %s, %s", sorted[0].ID, sorted[1].ID, sorted[2].ID)
	}

	fmt.Println("Completing the chain...")
	view, err = task.ApplyAll(view, []task.Intent{
		task.Complete("task-A"),
		task.Complete("task-B"),
		task.Complete("task-C"),
	})
	if err != nil {
		log.Fatalf("ApplyAll failed: %v", err)
	}
	done, err := task.DeepComplete(view, "task-C")
	if err != nil || !done {
		log.Fatalf("Task C should be deep-complete, got %v (%v)", done, err)
	}

	fmt.Println("Closing a cycle A->C...")
	_, err = task.ApplyAll(view, []task.Intent{task.Block("task-A", "task-C")})
	if !errors.Is(err, task.ErrCycle) {
		log.Fatalf("Expected a cycle error, got %v", err)
	}
	fmt.Printf("Rejected: %v\n", err)

	fmt.Println("SUCCESS: DAG Support Verified!")
}

