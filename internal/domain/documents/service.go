package documents

import (
	"context"
	"fmt"
	"log/slog"

	"peopledesk/internal/domain/auth"
	"peopledesk/internal/domain/core"
	"peopledesk/internal/platform/crypto"
	"peopledesk/internal/platform/storage"
)

type Service struct {
	Store  *Store
	Core   *core.Store
	Crypto *crypto.Service
	Blobs  *storage.S3
}

func NewService(store *Store, coreStore *core.Store, cryptoSvc *crypto.Service, blobs *storage.S3) *Service {
	return &Service{Store: store, Core: coreStore, Crypto: cryptoSvc, Blobs: blobs}
}

// RequesterFor resolves the acting user into the identity access
// decisions are made against. Users without an employee record resolve
// with empty employee and department ids.
func (s *Service) RequesterFor(ctx context.Context, user auth.UserContext) Requester {
	req := Requester{UserID: user.UserID, RoleName: user.RoleName}
	employeeID, err := s.Core.EmployeeIDByUserID(ctx, user.UserID)
	if err != nil {
		return req
	}
	req.EmployeeID = employeeID
	if deptID, err := s.Core.DepartmentOfEmployee(ctx, employeeID); err == nil {
		req.DepartmentID = deptID
	}
	return req
}

// List returns the documents the requester is allowed to see.
func (s *Service) List(ctx context.Context, requester Requester, filter Filter) ([]Document, error) {
	docs, err := s.Store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	visible := docs[:0]
	for _, d := range docs {
		if CanAccess(d, requester) {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

type UploadInput struct {
	EmployeeID   string
	DepartmentID string
	Title        string
	FileName     string
	ContentType  string
	AccessLevel  string
	Content      []byte
}

// UploadResult carries the stored metadata, plus a presigned upload URL
// when content goes to object storage instead of the database.
type UploadResult struct {
	Document  Document `json:"document"`
	UploadURL string   `json:"uploadUrl,omitempty"`
}

// Upload stores a document. When object storage is configured and no
// inline content is supplied, the caller receives a presigned PUT URL
// and ships the bytes directly. Inline content is encrypted at rest
// when an encryption key is configured.
func (s *Service) Upload(ctx context.Context, uploadedBy string, in UploadInput) (UploadResult, error) {
	if in.Title == "" || in.FileName == "" {
		return UploadResult{}, fmt.Errorf("title and file name are required")
	}
	switch in.AccessLevel {
	case AccessPublic, AccessDepartment, AccessManager, AccessHR, AccessAdmin, AccessIndividual:
	default:
		return UploadResult{}, fmt.Errorf("unknown access level %q", in.AccessLevel)
	}
	if in.AccessLevel == AccessIndividual && in.EmployeeID == "" {
		return UploadResult{}, fmt.Errorf("individual documents require an employee id")
	}

	doc := Document{
		EmployeeID:   in.EmployeeID,
		DepartmentID: in.DepartmentID,
		Title:        in.Title,
		FileName:     in.FileName,
		ContentType:  in.ContentType,
		SizeBytes:    int64(len(in.Content)),
		AccessLevel:  in.AccessLevel,
		UploadedBy:   uploadedBy,
	}

	var result UploadResult
	var content []byte

	if len(in.Content) == 0 && s.Blobs != nil && s.Blobs.Configured() {
		doc.StorageKey = storage.NewObjectKey()
		url, err := s.Blobs.PresignPut(ctx, doc.StorageKey)
		if err != nil {
			return UploadResult{}, fmt.Errorf("failed to presign upload: %w", err)
		}
		result.UploadURL = url
	} else {
		encrypted, err := s.Crypto.Encrypt(in.Content)
		if err != nil {
			return UploadResult{}, fmt.Errorf("failed to encrypt document: %w", err)
		}
		content = encrypted
		doc.Encrypted = s.Crypto.Configured()
	}

	id, err := s.Store.Create(ctx, doc, content)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to store document: %w", err)
	}
	stored, err := s.Store.Get(ctx, id)
	if err != nil {
		return UploadResult{}, err
	}
	result.Document = stored

	s.logAccess(ctx, id, uploadedBy, "upload")
	return result, nil
}

// DownloadResult is either inline content or a presigned GET URL.
type DownloadResult struct {
	Document    Document
	Content     []byte
	DownloadURL string
}

// Download enforces the access decision, records the access, and
// returns the content or a presigned URL depending on where the bytes
// live.
func (s *Service) Download(ctx context.Context, requester Requester, documentID string) (DownloadResult, error) {
	doc, err := s.Store.Get(ctx, documentID)
	if err != nil {
		return DownloadResult{}, err
	}
	if !CanAccess(doc, requester) {
		s.logAccess(ctx, documentID, requester.UserID, "denied")
		return DownloadResult{}, ErrAccessDenied
	}

	result := DownloadResult{Document: doc}
	if doc.StorageKey != "" && s.Blobs != nil && s.Blobs.Configured() {
		url, err := s.Blobs.PresignGet(ctx, doc.StorageKey)
		if err != nil {
			return DownloadResult{}, fmt.Errorf("failed to presign download: %w", err)
		}
		result.DownloadURL = url
	} else {
		raw, err := s.Store.Content(ctx, documentID)
		if err != nil {
			return DownloadResult{}, err
		}
		content := raw
		if doc.Encrypted {
			if content, err = s.Crypto.Decrypt(raw); err != nil {
				return DownloadResult{}, fmt.Errorf("failed to decrypt document: %w", err)
			}
		}
		result.Content = content
	}

	s.logAccess(ctx, documentID, requester.UserID, "download")
	return result, nil
}

func (s *Service) Get(ctx context.Context, requester Requester, documentID string) (Document, error) {
	doc, err := s.Store.Get(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if !CanAccess(doc, requester) {
		return Document{}, ErrAccessDenied
	}
	return doc, nil
}

func (s *Service) Delete(ctx context.Context, requester Requester, documentID string) error {
	if !auth.PrivilegedRole(requester.RoleName) {
		return ErrAccessDenied
	}
	if err := s.Store.Delete(ctx, documentID); err != nil {
		return err
	}
	s.logAccess(ctx, documentID, requester.UserID, "delete")
	return nil
}

func (s *Service) AccessLog(ctx context.Context, documentID string) ([]AccessLogEntry, error) {
	return s.Store.AccessLog(ctx, documentID)
}

// Access log writes never fail the user-facing operation.
func (s *Service) logAccess(ctx context.Context, documentID, userID, action string) {
	if err := s.Store.LogAccess(ctx, documentID, userID, action); err != nil {
		slog.Warn("failed to record document access",
			slog.String("document_id", documentID),
			slog.String("action", action),
			slog.Any("error", err))
	}
}
