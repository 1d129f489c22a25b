package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/appointment-desk/internal/models"
)

func messagesCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Send and read messages",
	}
	cmd.AddCommand(
		messagesSendCmd(rt),
		messagesListCmd(rt),
		messagesReadCmd(rt),
		messagesDeleteCmd(rt),
	)
	return cmd
}

func messagesSendCmd(rt *runtime) *cobra.Command {
	var to, subject, body string
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message to another user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := rt.requireRole()
			if err != nil {
				return err
			}
			_, found, err := rt.app.Store.GetUserByID(cmd.Context(), to)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("recipient %s: %w", to, ErrNotFound)
			}
			m, err := rt.app.Store.AddMessage(cmd.Context(), models.Message{
				SenderID:    session.ID,
				RecipientID: to,
				Subject:     subject,
				Body:        body,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, m)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient user ID")
	cmd.Flags().StringVar(&subject, "subject", "", "subject line")
	cmd.Flags().StringVar(&body, "body", "", "message text")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func messagesListCmd(rt *runtime) *cobra.Command {
	var unread bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages sent or received by the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := rt.requireRole()
			if err != nil {
				return err
			}
			var list []models.Message
			if unread {
				list, err = rt.app.Store.UnreadMessages(cmd.Context(), session.ID)
			} else {
				list, err = rt.app.Store.MessagesByUser(cmd.Context(), session.ID)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, list)
		},
	}
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread messages addressed to me")
	return cmd
}

func messagesReadCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "read ID",
		Short: "Mark a received message as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := rt.requireRole()
			if err != nil {
				return err
			}
			m, found, err := rt.app.Store.GetMessageByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("message %s: %w", args[0], ErrNotFound)
			}
			if m.RecipientID != session.ID {
				return ErrForbidden
			}
			m, _, err = rt.app.Store.MarkMessageAsRead(cmd.Context(), m.ID)
			if err != nil {
				return err
			}
			return printJSON(cmd, m)
		},
	}
}

func messagesDeleteCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := rt.requireRole()
			if err != nil {
				return err
			}
			m, found, err := rt.app.Store.GetMessageByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("message %s: %w", args[0], ErrNotFound)
			}
			if session.Role != models.RoleAdmin && !m.HasParticipant(session.ID) {
				return ErrForbidden
			}
			if err := confirmed(cmd); err != nil {
				return err
			}
			if err := rt.app.Store.RemoveMessage(cmd.Context(), m.ID); err != nil {
				return err
			}
			return printJSON(cmd, statusResponse{Status: "deleted", ID: m.ID})
		},
	}
	addYesFlag(cmd)
	return cmd
}
