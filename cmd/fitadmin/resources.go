package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/fitadmin/internal/cli"
	"github.com/studiowebux/fitadmin/internal/services"
	"github.com/studiowebux/fitadmin/internal/types"
)

var (
	flagPage  int
	flagLimit int
)

func pageQuery() services.PageQuery {
	return services.PageQuery{Page: flagPage, Limit: flagLimit}
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagPage, "page", services.DefaultPage.Page, "Page number")
	cmd.Flags().IntVar(&flagLimit, "limit", services.DefaultPage.Limit, "Page size")
}

// Exercises

var exercisesCmd = &cobra.Command{
	Use:     "exercises",
	Aliases: []string{"exercise", "ex"},
	Short:   "Manage the exercise library",
}

var exercisesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List exercises",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		page, err := app.Services.Exercises.List(cmd.Context(), pageQuery())
		if err != nil {
			return err
		}
		return printResult(cmd, page)
	}),
}

var exercisesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one exercise",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		ex, err := app.Services.Exercises.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, ex)
	}),
}

var exercisesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an exercise from -d",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		var req types.ExerciseRequest
		if err := cli.ReadInto(flagData, os.Stdin, &req); err != nil {
			return err
		}
		ex, err := app.Services.Exercises.Create(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printResult(cmd, ex)
	}),
}

var exercisesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an exercise from -d",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		var req types.ExerciseRequest
		if err := cli.ReadInto(flagData, os.Stdin, &req); err != nil {
			return err
		}
		ex, err := app.Services.Exercises.Update(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		return printResult(cmd, ex)
	}),
}

var exercisesStatusCmd = &cobra.Command{
	Use:       "status <id> <published|draft>",
	Short:     "Publish or unpublish an exercise",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{services.ExercisePublished, services.ExerciseDraft},
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		ex, err := app.Services.Exercises.UpdateStatus(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printResult(cmd, ex)
	}),
}

var exercisesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an exercise",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		prompter := cli.NewPrompter(os.Stdin, cmd.ErrOrStderr())
		if !flagYes && !prompter.Confirm(fmt.Sprintf("Delete exercise %s?", args[0])) {
			return fmt.Errorf("deletion cancelled")
		}
		return app.Services.Exercises.Delete(cmd.Context(), args[0])
	}),
}

var exercisesImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk import exercises from a JSON or YAML array",
	Long: `Bulk import exercises. The file holds an array of rows:

  - title: Back Squat
    instructions: Keep the chest up
    videoLink: https://example.com/squat`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		var rows []types.ExerciseImport
		if err := cli.ReadInto("@"+args[0], os.Stdin, &rows); err != nil {
			return err
		}
		summary, err := app.Services.Exercises.BulkImport(cmd.Context(), rows)
		if err != nil {
			return err
		}
		return printResult(cmd, summary)
	}),
}

var flagYes bool

// Notifications

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notification", "notif"},
	Short:   "Manage push notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		page, err := app.Services.Notifications.List(cmd.Context(), pageQuery())
		if err != nil {
			return err
		}
		return printResult(cmd, page)
	}),
}

var notificationsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one notification",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		n, err := app.Services.Notifications.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, n)
	}),
}

var notificationsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a notification draft",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		req, err := notificationRequest()
		if err != nil {
			return err
		}
		n, err := app.Services.Notifications.Create(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printResult(cmd, n)
	}),
}

var notificationsSendCmd = &cobra.Command{
	Use:   "send [id]",
	Short: "Send a stored notification, or create and send one",
	Long: `Send a stored notification by id. Without an id, a draft is created from
--title/--message (or -d) and sent in one go.`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		if len(args) == 1 {
			res, err := app.Services.Notifications.Send(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}

		req, err := notificationRequest()
		if err != nil {
			return err
		}
		res, err := app.Services.Notifications.CreateAndSend(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printResult(cmd, res)
	}),
}

var notificationsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a notification draft",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		req, err := notificationRequest()
		if err != nil {
			return err
		}
		n, err := app.Services.Notifications.Update(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		return printResult(cmd, n)
	}),
}

var notificationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a notification",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		prompter := cli.NewPrompter(os.Stdin, cmd.ErrOrStderr())
		if !flagYes && !prompter.Confirm(fmt.Sprintf("Delete notification %s?", args[0])) {
			return fmt.Errorf("deletion cancelled")
		}
		return app.Services.Notifications.Delete(cmd.Context(), args[0])
	}),
}

var (
	flagTitle      string
	flagMessage    string
	flagRecipients []string
)

// notificationRequest builds a request from -d or the title/message flags
func notificationRequest() (types.NotificationRequest, error) {
	var req types.NotificationRequest
	if flagData != "" {
		if err := cli.ReadInto(flagData, os.Stdin, &req); err != nil {
			return req, err
		}
	}
	if flagTitle != "" {
		req.Title = flagTitle
	}
	if flagMessage != "" {
		req.Message = flagMessage
	}
	if len(flagRecipients) > 0 {
		req.Recipients = flagRecipients
		sendToAll := false
		req.SendToAll = &sendToAll
	}
	if req.Title == "" && req.Message == "" {
		return req, fmt.Errorf("a title or message is required (--title/--message or -d)")
	}
	return req, nil
}

// Users

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user"},
	Short:   "Manage users, trainers and trainees",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List application users",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		users, err := app.Services.Users.List(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd, users)
	}),
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		user, err := app.Services.Users.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, user)
	}),
}

var usersToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Activate or deactivate a user",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		user, err := app.Services.Users.ToggleStatus(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printResult(cmd, user)
	}),
}

var usersTrainersCmd = &cobra.Command{
	Use:   "trainers [id]",
	Short: "List trainers, or show one trainer",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		if len(args) == 1 {
			trainer, err := app.Services.Users.Trainer(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, trainer)
		}
		page, err := app.Services.Users.Trainers(cmd.Context(), pageQuery())
		if err != nil {
			return err
		}
		return printResult(cmd, page)
	}),
}

var usersTraineesCmd = &cobra.Command{
	Use:     "trainees [id]",
	Aliases: []string{"clients"},
	Short:   "List trainees, or show one trainee",
	Args:    cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		if len(args) == 1 {
			trainee, err := app.Services.Users.Trainee(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, trainee)
		}
		if flagTrainer != "" {
			trainees, err := app.Services.Users.TrainerClients(cmd.Context(), flagTrainer)
			if err != nil {
				return err
			}
			return printResult(cmd, trainees)
		}
		page, err := app.Services.Users.Trainees(cmd.Context(), pageQuery())
		if err != nil {
			return err
		}
		return printResult(cmd, page)
	}),
}

var flagTrainer string

// Legal

var legalCmd = &cobra.Command{
	Use:   "legal <terms|privacy>",
	Short: "Show or edit the terms and privacy documents",
	Long: `Show a legal document, or replace it with --set.

  fitadmin legal terms
  fitadmin legal privacy --set @privacy.html
  fitadmin legal terms --set "<p>Updated</p>" --id tc1
  fitadmin legal terms --set @terms.html --create`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(services.DocumentTerms), string(services.DocumentPrivacy)},
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		doc, err := services.ParseDocument(args[0])
		if err != nil {
			return err
		}

		if flagSet == "" {
			content, err := app.Services.Legal.Get(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return printResult(cmd, content)
		}

		content, err := readContent(flagSet)
		if err != nil {
			return err
		}
		var saved *types.LegalContent
		if flagCreate {
			saved, err = app.Services.Legal.Create(cmd.Context(), doc, content)
		} else {
			saved, err = app.Services.Legal.Update(cmd.Context(), doc, content, flagDocID)
		}
		if err != nil {
			return err
		}
		return printResult(cmd, saved)
	}),
}

var (
	flagSet    string
	flagDocID  string
	flagCreate bool
)

// readContent returns raw text inline or from @file
func readContent(arg string) (string, error) {
	if len(arg) > 1 && arg[0] == '@' {
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return "", fmt.Errorf("failed to read content file: %w", err)
		}
		return string(data), nil
	}
	return arg, nil
}

// Settings

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or toggle app settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the app setting",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		setting, err := app.Services.Settings.Get(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd, setting)
	}),
}

var settingsToggleCmd = &cobra.Command{
	Use:   "toggle [id]",
	Short: "Toggle notifications platform-wide",
	Long:  "Toggle notificationsEnabled. Without an id the current setting is fetched first.",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		} else {
			current, err := app.Services.Settings.Get(cmd.Context())
			if err != nil {
				return err
			}
			id = current.ID
		}
		setting, err := app.Services.Settings.Toggle(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printResult(cmd, setting)
	}),
}

// Stats

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show dashboard statistics",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		stats, err := app.Services.Dashboard.Stats(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd, stats)
	}),
}

func init() {
	// exercises
	addPageFlags(exercisesListCmd)
	for _, c := range []*cobra.Command{exercisesCreateCmd, exercisesUpdateCmd} {
		c.Flags().StringVarP(&flagData, "data", "d", "", "Exercise fields (JSON, @file or -)")
	}
	exercisesDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation")
	exercisesCmd.AddCommand(exercisesListCmd, exercisesGetCmd, exercisesCreateCmd, exercisesUpdateCmd,
		exercisesStatusCmd, exercisesDeleteCmd, exercisesImportCmd)

	// notifications
	addPageFlags(notificationsListCmd)
	for _, c := range []*cobra.Command{notificationsCreateCmd, notificationsSendCmd, notificationsUpdateCmd} {
		c.Flags().StringVar(&flagTitle, "title", "", "Notification title")
		c.Flags().StringVar(&flagMessage, "message", "", "Notification message")
		c.Flags().StringSliceVar(&flagRecipients, "to", nil, "Recipient user ids (default: everyone)")
		c.Flags().StringVarP(&flagData, "data", "d", "", "Notification fields (JSON, @file or -)")
	}
	notificationsDeleteCmd.Flags().BoolVarP(&flagYes, "yes", "y", false, "Skip confirmation")
	notificationsCmd.AddCommand(notificationsListCmd, notificationsGetCmd, notificationsCreateCmd,
		notificationsSendCmd, notificationsUpdateCmd, notificationsDeleteCmd)

	// users
	addPageFlags(usersTrainersCmd)
	addPageFlags(usersTraineesCmd)
	usersTraineesCmd.Flags().StringVar(&flagTrainer, "trainer", "", "Only trainees of this trainer")
	usersCmd.AddCommand(usersListCmd, usersGetCmd, usersToggleCmd, usersTrainersCmd, usersTraineesCmd)

	// legal
	legalCmd.Flags().StringVar(&flagSet, "set", "", "Replace the document (text or @file)")
	legalCmd.Flags().StringVar(&flagDocID, "id", "", "Document id for --set")
	legalCmd.Flags().BoolVar(&flagCreate, "create", false, "Create the document instead of updating it")

	// settings
	settingsCmd.AddCommand(settingsGetCmd, settingsToggleCmd)
}
