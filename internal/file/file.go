package file

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cradoe/sellerverify/internal/models"
	"github.com/google/uuid"
)

// FileUploader stores verification documents on Cloudinary. Every file gets a random public
// id under folder, so names chosen by sellers never collide or leak into URLs.
type FileUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func New(cloudName, apiKey, apiSecret, folder string) (*FileUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}

	return &FileUploader{
		cld:    cld,
		folder: strings.Trim(folder, "/"),
	}, nil
}

// Upload stores every file or none of them: if one fails, the ones already stored are destroyed
func (f *FileUploader) Upload(ctx context.Context, uploads []models.DocumentUpload) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(uploads))

	for i, upload := range uploads {
		doc, err := f.uploadOne(ctx, upload)
		if err != nil {
			if cleanupErr := f.Delete(context.WithoutCancel(ctx), docs); cleanupErr != nil {
				err = errors.Join(err, cleanupErr)
			}
			return nil, fmt.Errorf("upload document %d (%s): %w", i, upload.FileName, err)
		}

		docs = append(docs, doc)
	}

	return docs, nil
}

func (f *FileUploader) uploadOne(ctx context.Context, upload models.DocumentUpload) (models.Document, error) {
	res, err := f.cld.Upload.Upload(ctx, upload.Content, uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       f.folder,
		ResourceType: "image",
	})
	if err != nil {
		return models.Document{}, err
	}
	if res.Error.Message != "" {
		return models.Document{}, errors.New(res.Error.Message)
	}

	doc := models.Document{
		DocumentType: upload.DocumentType,
		FileName:     upload.FileName,
		FileURL:      res.SecureURL,
		StorageKey:   res.PublicID,
	}

	if upload.DocumentNumber != "" {
		number := upload.DocumentNumber
		doc.DocumentNumber = &number
	}

	size := upload.Size
	if res.Bytes > 0 {
		size = int64(res.Bytes)
	}
	if size > 0 {
		doc.FileSize = &size
	}

	if upload.MimeType != "" {
		mimeType := upload.MimeType
		doc.MimeType = &mimeType
	}

	return doc, nil
}

// Delete destroys the stored files. Documents without a storage key are skipped.
func (f *FileUploader) Delete(ctx context.Context, docs []models.Document) error {
	var errs []error

	for _, doc := range docs {
		if doc.StorageKey == "" {
			continue
		}

		res, err := f.cld.Upload.Destroy(ctx, uploader.DestroyParams{
			PublicID:     doc.StorageKey,
			ResourceType: "image",
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("destroy %s: %w", doc.StorageKey, err))
			continue
		}
		if res.Error.Message != "" {
			errs = append(errs, fmt.Errorf("destroy %s: %s", doc.StorageKey, res.Error.Message))
		}
	}

	return errors.Join(errs...)
}
