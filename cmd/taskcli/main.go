package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"TASKDECK_BACK-END/pkg/client"
)

func main() {
	baseURL := os.Getenv("TASKDECK_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	api, err := client.New(baseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	app := client.NewApp(api)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Taskdeck. Type 'help' for commands.")
	if api.LoggedIn() {
		fmt.Println("Logged in as", api.Email())
		refresh(app)
	} else {
		fmt.Println("Not logged in. Use 'login' or 'register'.")
	}

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()
		case "register":
			email, password := promptCredentials(scanner)
			if err := api.Register(context.Background(), email, password); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Account created. Use 'login' to sign in.")
		case "login":
			email, password := promptCredentials(scanner)
			if err := api.Login(context.Background(), email, password); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Logged in as", api.Email())
			refresh(app)
		case "logout":
			api.Logout()
			app.Tasks = nil
			fmt.Println("Logged out.")
		case "list":
			refresh(app)
			render(app)
		case "add":
			handleAdd(scanner, app, args)
		case "done", "undone":
			handleToggle(app, args, cmd == "done")
		case "edit":
			handleEdit(scanner, app, args)
		case "rm":
			handleRemove(app, args)
		case "clear":
			handleClear(scanner, app)
		case "filter":
			handleFilter(app, args)
		case "sort":
			handleSort(app, args)
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command. Type 'help'.")
		}
	}
}

func printHelp() {
	fmt.Print(`Commands:
  register           create an account
  login              sign in
  logout             sign out
  list               show tasks
  add                add a task (prompts for text, priority, due date)
  edit <id>          edit a task (prompts, empty keeps current)
  done <id>          mark a task completed
  undone <id>        mark a task incomplete
  rm <id>            delete a task
  clear              delete ALL tasks (asks twice)
  filter <all|active|completed>
  sort <priority|date|created>
  quit
`)
}

func promptCredentials(scanner *bufio.Scanner) (string, string) {
	fmt.Print("email: ")
	scanner.Scan()
	email := strings.TrimSpace(scanner.Text())
	fmt.Print("password: ")
	scanner.Scan()
	password := strings.TrimSpace(scanner.Text())
	return email, password
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

func handleAdd(scanner *bufio.Scanner, app *client.App, args []string) {
	text := strings.Join(args, " ")
	if text == "" {
		text = prompt(scanner, "text: ")
	}
	priority := prompt(scanner, "priority (low/medium/high) [medium]: ")
	if priority == "" {
		priority = "medium"
	}
	dueDate := prompt(scanner, "due date YYYY-MM-DD (empty for none): ")

	if err := app.Add(context.Background(), text, priority, dueDate); err != nil {
		reportError(err)
		return
	}
	render(app)
}

func handleToggle(app *client.App, args []string, completed bool) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	if err := app.SetCompleted(context.Background(), id, completed); err != nil {
		reportError(err)
		return
	}
	render(app)
}

func handleEdit(scanner *bufio.Scanner, app *client.App, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}

	var patch client.TaskPatch
	if text := prompt(scanner, "text (empty keeps current): "); text != "" {
		patch.Text = &text
	}
	if priority := prompt(scanner, "priority (empty keeps current): "); priority != "" {
		patch.Priority = &priority
	}
	if due := prompt(scanner, "due date YYYY-MM-DD ('-' clears, empty keeps current): "); due != "" {
		if due == "-" {
			due = ""
		}
		patch.DueDate = &due
	}

	if err := app.Update(context.Background(), id, patch); err != nil {
		reportError(err)
		return
	}
	render(app)
}

func handleRemove(app *client.App, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}
	if err := app.Remove(context.Background(), id); err != nil {
		reportError(err)
		return
	}
	render(app)
}

// handleClear deletes everything, behind two explicit confirmations.
func handleClear(scanner *bufio.Scanner, app *client.App) {
	if prompt(scanner, "Delete ALL tasks? (yes/no): ") != "yes" {
		fmt.Println("Cancelled.")
		return
	}
	if prompt(scanner, "This cannot be undone. Really delete everything? (yes/no): ") != "yes" {
		fmt.Println("Cancelled.")
		return
	}

	deleted, err := app.Clear(context.Background())
	if err != nil {
		reportError(err)
		return
	}
	fmt.Printf("Deleted %d tasks.\n", deleted)
}

func handleFilter(app *client.App, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: filter <all|active|completed>")
		return
	}
	switch client.Filter(args[0]) {
	case client.FilterAll, client.FilterActive, client.FilterCompleted:
		app.Filter = client.Filter(args[0])
		render(app)
	default:
		fmt.Println("usage: filter <all|active|completed>")
	}
}

func handleSort(app *client.App, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: sort <priority|date|created>")
		return
	}
	switch client.SortKey(args[0]) {
	case client.SortPriority, client.SortDate, client.SortCreated:
		app.Sort = client.SortKey(args[0])
		render(app)
	default:
		fmt.Println("usage: sort <priority|date|created>")
	}
}

func parseID(args []string) (int64, bool) {
	if len(args) != 1 {
		fmt.Println("usage: <command> <id>")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Println("invalid id:", args[0])
		return 0, false
	}
	return id, true
}

func refresh(app *client.App) {
	if err := app.Refresh(context.Background()); err != nil {
		reportError(err)
	}
}

func reportError(err error) {
	if errors.Is(err, client.ErrSessionExpired) {
		fmt.Println("Session expired. Please 'login' again.")
		return
	}
	fmt.Println("error:", err)
}

func render(app *client.App) {
	tasks := app.Visible()
	if len(tasks) == 0 {
		fmt.Printf("No tasks (filter=%s, sort=%s).\n", app.Filter, app.Sort)
		return
	}

	now := time.Now()
	fmt.Printf("Tasks (filter=%s, sort=%s):\n", app.Filter, app.Sort)
	for _, task := range tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("  [%s] #%d (%s) %s", mark, task.ID, task.Priority, task.Text)
		if badge := client.FormatDueDate(task.DueDate, now); badge != nil {
			if badge.Overdue {
				line += fmt.Sprintf("  !! %s", badge.Text)
			} else {
				line += fmt.Sprintf("  (%s)", badge.Text)
			}
		}
		fmt.Println(line)
	}
}
