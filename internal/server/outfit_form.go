package server

import (
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"outfitted/internal/models"
	"outfitted/internal/service"
)

var itemFieldPattern = regexp.MustCompile(`^items\[(\d{1,6})\]\[([A-Za-z_]+)\]$`)

// outfitRequest is the JSON body accepted by outfit create and update.
type outfitRequest struct {
	Title       string             `json:"title"`
	Description *string            `json:"description"`
	ImageURL    *string            `json:"image_url"`
	CategoryID  uint               `json:"category_id"`
	Items       []models.ItemInput `json:"items"`
}

func (r outfitRequest) input() service.OutfitInput {
	return service.OutfitInput{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CategoryID:  r.CategoryID,
		Items:       r.Items,
	}
}

// decodeOutfitForm builds an outfit input from multipart form values. Items
// are sent as items[<index>][name|brand|model] and are returned ordered by
// their numeric index.
func decodeOutfitForm(values map[string][]string) (service.OutfitInput, error) {
	in := service.OutfitInput{
		Title:       firstValue(values, "title"),
		Description: optionalValue(values, "description"),
		ImageURL:    optionalValue(values, "image_url"),
	}

	if raw := strings.TrimSpace(firstValue(values, "category_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return service.OutfitInput{}, models.NewFieldValidationError("category_id", "Invalid category_id")
		}
		in.CategoryID = uint(id)
	}

	items, err := decodeFormItems(values)
	if err != nil {
		return service.OutfitInput{}, err
	}
	in.Items = items
	return in, nil
}

func decodeFormItems(values map[string][]string) ([]models.ItemInput, error) {
	byIndex := make(map[int]*models.ItemInput)

	for key, vals := range values {
		if !strings.HasPrefix(key, "items") {
			continue
		}
		m := itemFieldPattern.FindStringSubmatch(key)
		if m == nil {
			return nil, models.NewFieldValidationError(key, "Malformed item field")
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, models.NewFieldValidationError(key, "Malformed item index")
		}

		item, ok := byIndex[index]
		if !ok {
			if len(byIndex) >= service.MaxOutfitItems {
				return nil, models.NewFieldValidationError("items",
					fmt.Sprintf("an outfit can have at most %d items", service.MaxOutfitItems))
			}
			item = &models.ItemInput{}
			byIndex[index] = item
		}

		value := ""
		if len(vals) > 0 {
			value = vals[0]
		}
		switch m[2] {
		case "name":
			item.Name = value
		case "brand":
			item.Brand = &value
		case "model":
			item.Model = &value
		default:
			return nil, models.NewFieldValidationError(key, "Unknown item field "+m[2])
		}
	}

	indices := make([]int, 0, len(byIndex))
	for index := range byIndex {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	items := make([]models.ItemInput, 0, len(indices))
	for _, index := range indices {
		item := byIndex[index]
		if strings.TrimSpace(item.Name) == "" {
			return nil, models.NewFieldValidationError(
				fmt.Sprintf("items[%d][name]", index), "Item name is required")
		}
		items = append(items, *item)
	}
	return items, nil
}

// readUpload reads the optional image part. A part without a file name and
// content means no file was chosen.
func readUpload(form *multipart.Form) (*service.ImageUpload, error) {
	files := form.File["image"]
	if len(files) == 0 {
		return nil, nil
	}
	file := files[0]
	if file.Filename == "" && file.Size == 0 {
		return nil, nil
	}

	src, err := file.Open()
	if err != nil {
		return nil, models.NewFieldValidationError("image", "Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, models.NewFieldValidationError("image", "Unable to read uploaded file")
	}
	return &service.ImageUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func firstValue(values map[string][]string, key string) string {
	if vals := values[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func optionalValue(values map[string][]string, key string) *string {
	vals, ok := values[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}
