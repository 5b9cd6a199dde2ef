package server

import (
	"encoding/base64"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/gofiber/fiber/v2"
)

const mimeCBOR = "application/cbor"

var supportedMediaTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/x-portable-graymap",
	"image/x-portable-pixmap",
	"image/x-portable-bitmap",
	"image/x-portable-anymap",
}

// decodeImageData accepts plain base64 or a data URI such as "data:image/png;base64,...".
func decodeImageData(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		parts := strings.SplitN(s, ",", 2)
		if len(parts) != 2 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid base64 image format")
		}
		meta := parts[0]
		s = parts[1]

		supported := false
		for _, mt := range supportedMediaTypes {
			if strings.Contains(meta, mt) {
				supported = true
				break
			}
		}
		if !supported {
			return nil, fiber.NewError(fiber.StatusUnsupportedMediaType, "Unsupported image type")
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to decode base64: "+err.Error())
	}
	return decoded, nil
}

// readImage extracts the uploaded image from a multipart "image" field or from a JSON or
// CBOR ImageRequest body. It returns the bytes and a name for error messages.
func readImage(c *fiber.Ctx) ([]byte, string, error) {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))

	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("image")
		if err != nil {
			return nil, "", fiber.NewError(fiber.StatusBadRequest, "image is required")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", err
		}
		return data, fh.Filename, nil
	}

	var req ImageRequest
	if strings.HasPrefix(contentType, mimeCBOR) {
		if err := cbor.Unmarshal(c.Body(), &req); err != nil {
			return nil, "", fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
		}
	} else if err := c.BodyParser(&req); err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	if len(req.Data) > 0 {
		return req.Data, "upload", nil
	}
	if req.Image == "" {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "image is required")
	}
	data, err := decodeImageData(req.Image)
	if err != nil {
		return nil, "", err
	}
	return data, "upload", nil
}

// respond writes v as CBOR when the client accepts it and as JSON otherwise.
func respond(c *fiber.Ctx, status int, v any) error {
	c.Status(status)
	if c.Accepts(fiber.MIMEApplicationJSON, mimeCBOR) == mimeCBOR {
		data, err := cbor.Marshal(v)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, mimeCBOR)
		return c.Send(data)
	}
	return c.JSON(v)
}
