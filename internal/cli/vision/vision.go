package vision

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/lifeplan/internal/cli"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/storage"
)

type VisionAddCmd struct {
	File string `arg:"" type:"existingfile" help:"Image file to add."`
	Name string `short:"n" help:"Display name. Defaults to the file name."`
}

func (c *VisionAddCmd) Run(ctx *cli.Context) error {
	img, err := NewImage(c.File, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Store.AddVisionImage(img); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	fmt.Printf("✓ Added %s (%s)\n", img.Name, cli.ShortID(img.ID))
	return nil
}

// NewImage reads path and returns a vision image with base64-encoded contents
func NewImage(path, name string) (models.VisionImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.VisionImage{}, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return models.VisionImage{}, fmt.Errorf("image file %s is empty", path)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = filepath.Base(path)
	}
	return models.VisionImage{
		ID:        uuid.New().String(),
		Name:      name,
		ImageData: base64.StdEncoding.EncodeToString(data),
	}, nil
}

type VisionListCmd struct{}

func (c *VisionListCmd) Run(ctx *cli.Context) error {
	images, err := ctx.Store.GetVisionImages()
	if err != nil {
		return fmt.Errorf("failed to load vision board: %w", err)
	}
	if len(images) == 0 {
		fmt.Println("Vision board is empty.")
		return nil
	}
	fmt.Println("Vision board:")
	for _, img := range images {
		size := base64.StdEncoding.DecodedLen(len(img.ImageData))
		fmt.Printf("  %s  %-30s ~%d bytes\n", cli.ShortID(img.ID), img.Name, size)
	}
	return nil
}

type VisionDeleteCmd struct {
	ID string `arg:"" help:"Image ID or unique prefix."`
}

func (c *VisionDeleteCmd) Run(ctx *cli.Context) error {
	images, err := ctx.Store.GetVisionImages()
	if err != nil {
		return fmt.Errorf("failed to load vision board: %w", err)
	}
	img, err := Find(images, c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteVisionImage(img.ID); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	fmt.Printf("✓ Removed %s\n", img.Name)
	return nil
}

// Find resolves a full ID or a unique ID prefix
func Find(images []models.VisionImage, ref string) (models.VisionImage, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.VisionImage{}, errors.New("image id is required")
	}
	var matches []models.VisionImage
	for _, img := range images {
		if img.ID == ref {
			return img, nil
		}
		if strings.HasPrefix(img.ID, ref) {
			matches = append(matches, img)
		}
	}
	switch len(matches) {
	case 0:
		return models.VisionImage{}, fmt.Errorf("image %s: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.VisionImage{}, fmt.Errorf("image id %s is ambiguous (%d matches)", ref, len(matches))
	}
}
