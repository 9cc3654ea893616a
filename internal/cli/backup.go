package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/udx-labs/userdesk/internal/filex"
)

func (a *App) Backup(ctx context.Context) error {
	doc := a.backups.CreateBackup(ctx)
	defer a.touch(ctx)

	fmt.Fprintf(a.out, "Backup created at %s (%d keys)\n",
		doc.CreatedAt.Format("2006-01-02 15:04:05"), len(doc.Data))
	return nil
}

func (a *App) Restore(ctx context.Context) error {
	if !a.backups.RestoreBackup(ctx, nil) {
		fmt.Fprintln(a.out, "No backup to restore")
		return nil
	}
	defer a.touch(ctx)

	fmt.Fprintln(a.out, "Backup restored")
	return nil
}

func (a *App) Export(ctx context.Context) error {
	format, err := GetSimpleText(a.reader, "Format (json/csv)", a.out)
	if err != nil {
		return err
	}

	content := a.backups.Export(ctx, format)
	if content == "" {
		fmt.Fprintln(a.out, "Nothing exported")
		return nil
	}
	defer a.touch(ctx)

	save, err := GetSimpleText(a.reader, "Save to exports/ (y/N)", a.out)
	if err != nil {
		return err
	}
	if save == "y" || save == "Y" {
		path, err := filex.WriteExport(content, format, time.Now())
		if err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
			return err
		}
		fmt.Fprintln(a.out, "Saved to", path)
		return nil
	}

	fmt.Fprintln(a.out, content)
	return nil
}
