package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/mara/routinely-api/internal/handlers"
	"github.com/mara/routinely-api/internal/middleware"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me", handlers.UpdateProfile)

	households := protected.Group("/households")
	households.Get("/", handlers.GetHouseholds)
	households.Post("/", handlers.CreateHousehold)
	households.Get("/:id", handlers.GetHousehold)
	households.Delete("/:id", handlers.DeleteHousehold)

	households.Post("/:id/persons", handlers.CreatePerson)
	households.Get("/:id/persons", handlers.GetPersons)

	households.Post("/:id/routines", handlers.CreateRoutine)
	households.Get("/:id/routines", handlers.GetRoutines)

	households.Post("/:id/goals", handlers.CreateGoal)
	households.Get("/:id/goals", handlers.GetGoals)

	// Household invites & members
	households.Post("/:id/invites", handlers.CreateInvite)
	households.Get("/:id/members", handlers.GetMembers)
	households.Delete("/:id/members/:userId", handlers.RemoveMember)
	households.Post("/:id/leave", handlers.LeaveHousehold)

	// Household activity
	households.Get("/:id/activity", handlers.GetHouseholdActivity)

	// Join household via invite code
	protected.Post("/invites/:code/join", handlers.JoinHousehold)

	persons := protected.Group("/persons")
	persons.Put("/:id", handlers.UpdatePerson)
	persons.Delete("/:id", handlers.DeletePerson)
	persons.Get("/:id/dashboard", handlers.GetPersonDashboard)

	routines := protected.Group("/routines")
	routines.Get("/:id", handlers.GetRoutine)
	routines.Put("/:id", handlers.UpdateRoutine)
	routines.Delete("/:id", handlers.DeleteRoutine)

	routines.Post("/:id/tasks", handlers.CreateTask)
	routines.Post("/:id/conditions", handlers.CreateCondition)

	// Visibility resolution for a person
	routines.Get("/:id/visibility", handlers.GetRoutineVisibility)
	routines.Get("/:id/visible-tasks", handlers.GetVisibleTasks)

	tasks := protected.Group("/tasks")
	tasks.Put("/:id", handlers.UpdateTask)
	tasks.Delete("/:id", handlers.DeleteTask)
	tasks.Post("/:id/complete", handlers.CompleteTask)
	tasks.Get("/:id/completions", handlers.GetCompletions)

	protected.Delete("/completions/:id", handlers.UndoCompletion)

	conditions := protected.Group("/conditions")
	conditions.Get("/:id", handlers.GetCondition)
	conditions.Put("/:id", handlers.UpdateCondition)
	conditions.Delete("/:id", handlers.DeleteCondition)
	conditions.Get("/:id/evaluate", handlers.EvaluateConditionDebug)

	goals := protected.Group("/goals")
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)

	// WebSocket for real-time household updates
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws/households/:id", websocket.New(handlers.HandleWebSocket))
}
