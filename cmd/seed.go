package cmd

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "taskforge.app/taskforge/internal/configs"
	model "taskforge.app/taskforge/internal/models"
	repository "taskforge.app/taskforge/internal/repositories"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset",
	Long:  "Replaces the database contents with a set of demo tasks and posts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		logger := config.NewLogger(cfg.LogFile)
		defer func() { _ = logger.Sync() }()

		database := config.NewDatabase(cfg.DatabaseDSN)

		// seeding runs without the change feed; nothing is listening yet
		taskRepo := repository.NewTaskRepository(database, nil)
		postRepo := repository.NewPostRepository(database, nil)

		ctx := context.Background()

		if err := database.WithContext(ctx).Where("1 = 1").Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := database.WithContext(ctx).Where("1 = 1").Delete(&model.Task{}).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		day := 24 * time.Hour

		tasks := []model.Task{
			{Name: "Read a Book", Icon: "book", Color: "hsl(347, 89%, 60%)", Description: "Read at least 10 pages of a book every day."},
			{Name: "Daily Coding", Icon: "code", Color: "hsl(210, 89%, 60%)", Description: "Solve one coding challenge."},
			{Name: "Workout", Icon: "dumbbell", Color: "hsl(110, 89%, 60%)", Description: "Go to the gym or do a 30-minute home workout."},
			{Name: "Journaling", Icon: "pen-square", Color: "hsl(45, 89%, 60%)", Description: "Write down thoughts and reflections for 15 minutes."},
			{Name: "Learn Spanish", Icon: "plane", Color: "hsl(25, 89%, 60%)", Description: "Complete one language lesson."},
			{Name: "Meditate", Icon: "heart", Color: "hsl(300, 89%, 60%)", Description: "Practice 10 minutes of mindfulness meditation."},
		}

		ids := make([]string, len(tasks))
		for i := range tasks {
			created, err := taskRepo.Insert(ctx, &tasks[i])
			if err != nil {
				return err
			}
			ids[i] = created.ID
		}

		posts := []model.Post{
			{TaskID: ids[0], Title: "Read \"Dune\"", Content: "Finished chapter 3. The world-building is incredible.", CreatedAt: now.Add(-2 * day)},
			{TaskID: ids[1], Title: "Two Sum problem", Content: "Solved it using a hash map. Pretty straightforward.", CreatedAt: now.Add(-2 * day)},
			{TaskID: ids[0], Title: "Continued \"Dune\"", Content: "Paul Atreides is a fascinating protagonist.", CreatedAt: now.Add(-day)},
			{TaskID: ids[2], Title: "Leg Day", Content: "Focused on squats and lunges. Feeling the burn!", CreatedAt: now.Add(-day)},
			{TaskID: ids[3], Title: "Morning thoughts", Content: "Wrote about my goals for the upcoming week.", CreatedAt: now.Add(-day)},
			{TaskID: ids[1], Title: "JS Algorithm", Content: "Practiced recursion with a factorial function.", CreatedAt: now},
			{TaskID: ids[4], Title: "Travel vocabulary", Content: "Learned new phrases for ordering food.", CreatedAt: now},
		}

		for i := range posts {
			if _, err := postRepo.Insert(ctx, &posts[i]); err != nil {
				return err
			}
		}

		logger.Infow("demo data loaded", "tasks", len(tasks), "posts", len(posts))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
