package handlers

import (
	"mime/multipart"

	"housemanagement/internal/types"

	"github.com/gofiber/fiber/v2"
)

// formUploads opens the first file of each named field. The returned release
// func closes them and must be called once the controller is done.
func formUploads(c *fiber.Ctx, fields ...string) (map[string]*types.Upload, func(), error) {
	uploads := make(map[string]*types.Upload, len(fields))
	var opened []multipart.File
	release := func() {
		for _, file := range opened {
			_ = file.Close()
		}
	}

	if !isMultipart(c) {
		return uploads, release, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, release, err
	}

	for _, field := range fields {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}

		header := headers[0]
		file, err := header.Open()
		if err != nil {
			release()
			return nil, func() {}, err
		}
		opened = append(opened, file)

		uploads[field] = &types.Upload{
			Filename:    header.Filename,
			Size:        header.Size,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Body:        file,
		}
	}

	return uploads, release, nil
}
