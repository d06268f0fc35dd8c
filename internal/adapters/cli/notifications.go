package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewNotificationsCommand creates the notifications command group
func NewNotificationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Inspect and manage tenant notifications",
	}

	cmd.AddCommand(newNotificationsListCommand())
	cmd.AddCommand(newNotificationsUnreadCommand())
	cmd.AddCommand(newNotificationsMarkReadCommand())

	return cmd
}

func newNotificationsListCommand() *cobra.Command {
	var (
		tenantID string
		limit    int
		offset   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a tenant's notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			notifications, err := app.Notifications.ListByTenant(context.Background(), tenantID, limit, offset)
			if err != nil {
				return err
			}
			if len(notifications) == 0 {
				fmt.Println("No notifications")
				return nil
			}
			for _, n := range notifications {
				marker := " "
				if !n.Read {
					marker = "*"
				}
				fmt.Printf("%s %s  [%s]  %s\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.Type, n.Title)
				fmt.Printf("    %s  (id: %s)\n", n.Content, n.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant id")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of notifications to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of notifications to skip")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newNotificationsUnreadCommand() *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "unread",
		Short: "Show the unread notification count for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			count, err := app.Notifications.CountUnread(context.Background(), tenantID)
			if err != nil {
				return err
			}
			fmt.Printf("%d unread\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant id")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newNotificationsMarkReadCommand() *cobra.Command {
	var (
		tenantID       string
		notificationID string
		all            bool
	)

	cmd := &cobra.Command{
		Use:   "mark-read",
		Short: "Mark one notification (or all of a tenant's) as read",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && notificationID == "" {
				return fmt.Errorf("either --id or --all is required")
			}
			if all && tenantID == "" {
				return fmt.Errorf("--all requires --tenant")
			}

			app, err := NewApp(configPath)
			if err != nil {
				return err
			}
			defer app.Close()

			if all {
				if err := app.Notifications.MarkAllAsRead(context.Background(), tenantID); err != nil {
					return err
				}
				fmt.Println("✓ All notifications marked as read")
				return nil
			}

			if err := app.Notifications.MarkAsRead(context.Background(), notificationID); err != nil {
				return err
			}
			fmt.Println("✓ Notification marked as read")
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant id (required with --all)")
	cmd.Flags().StringVar(&notificationID, "id", "", "Notification id")
	cmd.Flags().BoolVar(&all, "all", false, "Mark all of the tenant's notifications as read")

	return cmd
}
