package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/hotelbook/internal/client/models"
	"github.com/dmitrijs2005/hotelbook/internal/client/rest"
)

func (a *App) profile(ctx context.Context, _ []string) error {
	out := a.users.Profile(ctx)
	u, ok := decodeUser(out)
	if !ok {
		a.report(out)
		return nil
	}
	a.email = u.Email
	a.printUser(u)
	return nil
}

// updateProfile prompts for every editable field. An empty optional answer
// clears the field.
func (a *App) updateProfile(ctx context.Context, _ []string) error {
	name, err := GetRequiredText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	phone, err := GetSimpleText(a.reader, "Phone (empty to clear)", a.out)
	if err != nil {
		return err
	}
	address, err := GetSimpleText(a.reader, "Address (empty to clear)", a.out)
	if err != nil {
		return err
	}
	idCard, err := GetSimpleText(a.reader, "ID card (empty to clear)", a.out)
	if err != nil {
		return err
	}

	out := a.users.UpdateProfile(ctx, models.ProfileUpdate{
		FullName: name,
		Phone:    models.Optional(phone),
		Address:  models.Optional(address),
		IDCard:   models.Optional(idCard),
	})
	if a.report(out) {
		if u, ok := decodeUser(out); ok {
			a.printUser(u)
		}
	}
	return nil
}

func (a *App) changePassword(ctx context.Context, _ []string) error {
	oldPassword, err := GetPassword(a.reader, "Current password", a.out)
	if err != nil {
		return err
	}
	newPassword, err := GetPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	a.report(a.users.ChangePassword(ctx, oldPassword, newPassword))
	return nil
}

func (a *App) uploadAvatar(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: avatar <path>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	out := a.users.UploadAvatar(ctx, f.Name(), f)
	if a.report(out) {
		var data models.AvatarData
		if err := out.Decode(&data); err == nil {
			fmt.Fprintln(a.out, "Avatar URL:", data.AvatarURL)
		}
	}
	return nil
}

func (a *App) bookings(ctx context.Context, args []string) error {
	page, perPage, err := pageArgs(args)
	if err != nil {
		return err
	}
	a.printRecords(a.users.Bookings(ctx, page, perPage), "No bookings.")
	return nil
}

func (a *App) favorites(ctx context.Context, args []string) error {
	page, perPage, err := pageArgs(args)
	if err != nil {
		return err
	}
	a.printRecords(a.users.Favorites(ctx, page, perPage), "No favorites.")
	return nil
}

func (a *App) printRecords(out *rest.Outcome, empty string) {
	if !out.Success {
		a.report(out)
		return
	}

	var records []models.Record
	if err := out.Decode(&records); err != nil && !errors.Is(err, rest.ErrNoData) {
		fmt.Fprintln(a.out, "error:", err)
		return
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, empty)
	}
	for _, r := range records {
		b, _ := json.Marshal(r)
		fmt.Fprintf(a.out, "  %s\n", b)
	}
	a.printPagination(out.Pagination)
}

func (a *App) notifications(ctx context.Context, args []string) error {
	page, perPage, err := pageArgs(args)
	if err != nil {
		return err
	}

	out := a.users.Notifications(ctx, page, perPage)
	if !out.Success {
		a.report(out)
		return nil
	}

	var list []models.Notification
	if err := out.Decode(&list); err != nil && !errors.Is(err, rest.ErrNoData) {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No notifications.")
	}
	for _, n := range list {
		mark := "*"
		if n.IsRead {
			mark = " "
		}
		fmt.Fprintf(a.out, "%s [%d] %s: %s\n", mark, n.NotificationID, n.Title, n.Message)
	}
	a.printPagination(out.Pagination)
	return nil
}

func (a *App) markRead(ctx context.Context, args []string) error {
	id, err := idArg(args, "read <id>")
	if err != nil {
		return err
	}
	a.report(a.users.MarkNotificationRead(ctx, id))
	return nil
}

func (a *App) deleteNotification(ctx context.Context, args []string) error {
	id, err := idArg(args, "delete-notification <id>")
	if err != nil {
		return err
	}
	a.report(a.users.DeleteNotification(ctx, id))
	return nil
}

// pageArgs parses the optional [page] [per_page] arguments. Zero means
// "server default".
func pageArgs(args []string) (page, perPage int, err error) {
	if len(args) > 0 {
		if page, err = strconv.Atoi(args[0]); err != nil || page < 1 {
			return 0, 0, fmt.Errorf("invalid page %q", args[0])
		}
	}
	if len(args) > 1 {
		if perPage, err = strconv.Atoi(args[1]); err != nil || perPage < 1 {
			return 0, 0, fmt.Errorf("invalid per_page %q", args[1])
		}
	}
	return page, perPage, nil
}

func idArg(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
