package upload

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/studiowebux/fitadmin/internal/apierr"
	"github.com/studiowebux/fitadmin/internal/types"
)

// PDFContentType is the only type accepted for PDF conversion
const PDFContentType = "application/pdf"

// DimensionDecoder reads the pixel size of an image file
type DimensionDecoder interface {
	Dimensions(file types.UploadFile) (apierr.Dimensions, error)
}

// DecoderFunc adapts a function to DimensionDecoder
type DecoderFunc func(file types.UploadFile) (apierr.Dimensions, error)

func (f DecoderFunc) Dimensions(file types.UploadFile) (apierr.Dimensions, error) {
	return f(file)
}

// ImageDecoder reads only the image header through image.DecodeConfig.
// Registered formats: JPEG, PNG, GIF, WebP, BMP, TIFF.
var ImageDecoder = DecoderFunc(func(file types.UploadFile) (apierr.Dimensions, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Data))
	if err != nil {
		return apierr.Dimensions{}, err
	}
	return apierr.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
})

// formatMB renders a byte ceiling the way users expect to read it
func formatMB(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%.1fMB", float64(n)/mb)
}

func isImageType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// checkImageFile runs the synchronous type and size gate
func (o *Orchestrator) checkImageFile(file types.UploadFile, batch bool) error {
	if !isImageType(file.ContentType) {
		if batch {
			return apierr.Newf(apierr.KindInvalidType, "All files must be valid images: %s", file.Name).WithFile(file.Name)
		}
		return apierr.New(apierr.KindInvalidType, "Please select a valid image file").WithFile(file.Name)
	}

	if file.Size() > o.opts.MaxImageBytes {
		limit := formatMB(o.opts.MaxImageBytes)
		if batch {
			return apierr.Newf(apierr.KindFileTooLarge, "All images must be less than %s: %s", limit, file.Name).WithFile(file.Name)
		}
		return apierr.Newf(apierr.KindFileTooLarge, "Image size must be less than %s", limit).WithFile(file.Name)
	}

	return nil
}

// checkDimensions decodes the image and enforces the minimum size
func (o *Orchestrator) checkDimensions(file types.UploadFile, batch bool) error {
	dims, err := o.decoder.Dimensions(file)
	if err != nil {
		msg := "Invalid image file"
		if batch {
			msg = "Invalid image file: " + file.Name
		}
		return apierr.Wrap(apierr.KindInvalidImage, msg, err).WithFile(file.Name)
	}

	required := apierr.Dimensions{Width: o.opts.MinWidth, Height: o.opts.MinHeight}
	if dims.Width >= required.Width && dims.Height >= required.Height {
		return nil
	}

	prefix := "Image"
	if batch {
		prefix = "Image " + file.Name
	}
	e := apierr.Newf(apierr.KindImageTooSmall,
		"%s dimensions must be at least %spx. Current: %spx", prefix, required, dims).WithFile(file.Name)
	e.Actual = &dims
	e.Required = &required
	return e
}

// checkPdfFile runs the PDF type and size gate
func (o *Orchestrator) checkPdfFile(file types.UploadFile) error {
	if file.ContentType != PDFContentType {
		return apierr.New(apierr.KindNotAPDF, "File must be a PDF").WithFile(file.Name)
	}
	if file.Size() > o.opts.MaxPdfBytes {
		return apierr.Newf(apierr.KindFileTooLarge, "PDF file must be less than %s", formatMB(o.opts.MaxPdfBytes)).WithFile(file.Name)
	}
	return nil
}
