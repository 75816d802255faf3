package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	apperrors "etshoes/internal/errors"
	"etshoes/internal/model"
	"etshoes/internal/storage"
)

// MaxUploadBytes is the largest image accepted by the upload proxy.
const MaxUploadBytes = 5 << 20

// UploadFile is one file of an upload call. Open is only called for files
// within the size limit.
type UploadFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// UploadResult lists the uploaded URLs in input order plus the files left out.
type UploadResult struct {
	URLs    []string `json:"urls"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}

// MediaService proxies variant image uploads to the image CDN.
type MediaService interface {
	UploadImages(ctx context.Context, files []UploadFile) (*UploadResult, error)
}

type mediaService struct {
	uploader storage.Uploader
	workers  int
}

// NewMediaService creates a media service uploading with at most workers files in flight.
func NewMediaService(uploader storage.Uploader, workers int) MediaService {
	if workers <= 0 {
		workers = model.MaxVariantImages
	}
	return &mediaService{uploader: uploader, workers: workers}
}

type uploadOutcome struct {
	url string
	err error
}

// UploadImages rejects calls with more than model.MaxVariantImages files
// before uploading anything. Oversized files are skipped; the rest are
// uploaded in parallel and returned in input order.
func (s *mediaService) UploadImages(ctx context.Context, files []UploadFile) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files selected", apperrors.ErrValidation)
	}
	if len(files) > model.MaxVariantImages {
		return nil, apperrors.ErrTooManyFiles
	}

	result := &UploadResult{URLs: []string{}, Skipped: []string{}, Failed: []string{}}
	accepted := make([]UploadFile, 0, len(files))
	for _, f := range files {
		if f.Size > MaxUploadBytes {
			result.Skipped = append(result.Skipped, f.Name)
			continue
		}
		accepted = append(accepted, f)
	}
	if len(accepted) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(accepted)))
	if err != nil {
		return nil, fmt.Errorf("create upload pool: %w", err)
	}
	defer pool.Release()

	outcomes := make([]uploadOutcome, len(accepted))
	var wg sync.WaitGroup
	for i, f := range accepted {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			outcomes[i] = s.uploadOne(ctx, f)
		}); err != nil {
			wg.Done()
			outcomes[i] = uploadOutcome{err: err}
		}
	}
	wg.Wait()

	for i, o := range outcomes {
		if o.err != nil {
			zap.L().Warn("image upload failed", zap.String("file", accepted[i].Name), zap.Error(o.err))
			result.Failed = append(result.Failed, accepted[i].Name)
			continue
		}
		result.URLs = append(result.URLs, o.url)
	}
	return result, nil
}

func (s *mediaService) uploadOne(ctx context.Context, f UploadFile) uploadOutcome {
	rc, err := f.Open()
	if err != nil {
		return uploadOutcome{err: fmt.Errorf("open %s: %w", f.Name, err)}
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxUploadBytes+1))
	if err != nil {
		return uploadOutcome{err: fmt.Errorf("read %s: %w", f.Name, err)}
	}
	if len(data) > MaxUploadBytes {
		return uploadOutcome{err: fmt.Errorf("%s exceeds %d bytes", f.Name, MaxUploadBytes)}
	}

	url, err := s.uploader.Upload(ctx, f.Name, data)
	if err != nil {
		return uploadOutcome{err: err}
	}
	return uploadOutcome{url: url}
}
