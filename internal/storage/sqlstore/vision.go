package sqlstore

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/julianstephens/lifeplan/internal/models"
)

func (s *Store) AddVisionImage(img models.VisionImage) error {
	_, err := s.sb.Insert("vision_images").
		Columns("id", "name", "image_data").
		Values(img.ID, img.Name, img.ImageData).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to add vision image: %w", err)
	}
	return nil
}

func (s *Store) GetVisionImages() ([]models.VisionImage, error) {
	rows, err := s.sb.Select("id", "name", "image_data").
		From("vision_images").
		OrderBy("name ASC", "id ASC").
		RunWith(s.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query vision images: %w", err)
	}
	defer rows.Close()

	var images []models.VisionImage
	for rows.Next() {
		var img models.VisionImage
		if err := rows.Scan(&img.ID, &img.Name, &img.ImageData); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (s *Store) DeleteVisionImage(id string) error {
	res, err := s.sb.Delete("vision_images").
		Where(sq.Eq{"id": id}).
		RunWith(s.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to delete vision image: %w", err)
	}
	return requireAffected(res)
}
