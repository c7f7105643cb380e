// Photo commands: ingesting images and managing per-specimen collections.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Manage specimen photos",
}

var photoAddCmd = &cobra.Command{
	Use:   "add <specimen-id> <file>...",
	Short: "Add photos to a specimen",
	Long: `Add ingests image files (JPEG, PNG, WebP, GIF) into the upload
store and appends them to the specimen's collection. The first photo of a
specimen becomes its primary photo.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		specimenID, err := parseID(args[0])
		if err != nil {
			return err
		}
		for _, path := range args[1:] {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			meta, err := ingest.Ingest(specimenID, f, filepath.Base(path))
			f.Close()
			if err != nil {
				return fmt.Errorf("ingest %s: %w", path, err)
			}
			id, err := store.Photos().Add(specimenID, meta)
			if err != nil {
				return fmt.Errorf("add photo %s: %w", path, err)
			}
			fmt.Printf("Added photo %d (%s, %dx%d)\n", id, meta.Filename, meta.Width, meta.Height)
		}
		return nil
	},
}

var photoCaptionCmd = &cobra.Command{
	Use:   "caption <photo-id> <caption>",
	Short: "Set a photo's caption",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := store.Photos().UpdateCaption(id, args[1]); err != nil {
			return fmt.Errorf("caption photo %d: %w", id, err)
		}
		fmt.Printf("Updated caption on photo %d\n", id)
		return nil
	},
}

var photoPrimaryCmd = &cobra.Command{
	Use:   "primary <specimen-id> <photo-id>",
	Short: "Make a photo the specimen's primary photo",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		specimenID, err := parseID(args[0])
		if err != nil {
			return err
		}
		photoID, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := store.Photos().SetPrimary(photoID, specimenID); err != nil {
			return fmt.Errorf("set primary photo: %w", err)
		}
		fmt.Printf("Photo %d is now primary for specimen %d\n", photoID, specimenID)
		return nil
	},
}

var photoReorderCmd = &cobra.Command{
	Use:   "reorder <photo-id>...",
	Short: "Replace the display order of a specimen's photos",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		if err := store.Photos().Reorder(ids); err != nil {
			return fmt.Errorf("reorder photos: %w", err)
		}
		fmt.Printf("Reordered %d photo(s)\n", len(ids))
		return nil
	},
}

var photoDeleteCmd = &cobra.Command{
	Use:   "delete <photo-id>",
	Short: "Delete a photo and its stored files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := store.Photos().Delete(id); err != nil {
			return fmt.Errorf("delete photo %d: %w", id, err)
		}
		fmt.Printf("Deleted photo %d\n", id)
		return nil
	},
}

func init() {
	photoCmd.AddCommand(photoAddCmd)
	photoCmd.AddCommand(photoCaptionCmd)
	photoCmd.AddCommand(photoPrimaryCmd)
	photoCmd.AddCommand(photoReorderCmd)
	photoCmd.AddCommand(photoDeleteCmd)
}
