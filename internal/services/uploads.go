package services

import (
	"context"

	"github.com/studiowebux/fitadmin/internal/apierr"
	"github.com/studiowebux/fitadmin/internal/executor"
	"github.com/studiowebux/fitadmin/internal/types"
)

const (
	pathUploadImage = "/uploads/image"
	pathPdfToImages = "/uploads/pdf-to-images"

	fieldImage = "image"
	fieldPdf   = "pdf"
)

// Uploads is the multipart transport for files. It performs no validation;
// the upload orchestrator gates files before they reach it.
type Uploads struct {
	client *executor.Client
}

// UploadImage sends one image and returns the server-assigned filename
func (u *Uploads) UploadImage(ctx context.Context, file types.UploadFile) (string, error) {
	res, err := u.client.Upload(ctx, pathUploadImage, fieldImage, file)
	if err != nil {
		return "", err
	}

	var uploaded types.ImageUploadResponse
	if err := res.Decode(&uploaded); err != nil || uploaded.Image == "" {
		return "", u.client.Classifier().Surface(
			apierr.Wrap(apierr.KindUnexpectedShape, "Upload response carried no image", err).WithFile(file.Name))
	}
	return uploaded.Image, nil
}

// ConvertPdf sends a PDF and returns the rendered page images
func (u *Uploads) ConvertPdf(ctx context.Context, file types.UploadFile) (types.PdfConversion, error) {
	res, err := u.client.Upload(ctx, pathPdfToImages, fieldPdf, file)
	if err != nil {
		return types.PdfConversion{}, err
	}

	var conversion types.PdfConversion
	if err := res.Decode(&conversion); err != nil {
		return types.PdfConversion{}, u.client.Classifier().Surface(
			apierr.Wrap(apierr.KindUnexpectedShape, "Unexpected response format", err).WithFile(file.Name))
	}
	return conversion, nil
}
