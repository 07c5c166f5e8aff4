package billing

import (
	"bytes"
	"context"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
)

// MaxLogoSize tamaño máximo del logo (2 MiB).
const MaxLogoSize = 2 << 20

// LogoURL ruta pública desde la que se sirve el logo.
const LogoURL = "/api/parametres/logo"

var logoTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
}

// SettingsUseCase parámetros de la empresa y logo.
type SettingsUseCase struct {
	repo    repository.SettingsRepository
	storage ObjectStorage
	opts    Options
	log     zerolog.Logger
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository, storage ObjectStorage, opts Options, log zerolog.Logger) *SettingsUseCase {
	return &SettingsUseCase{repo: repo, storage: storage, opts: opts, log: log}
}

// Get devuelve los parámetros; si nunca se guardaron, los valores por defecto de la configuración.
func (uc *SettingsUseCase) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	s, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = uc.defaults()
	}
	return toSettingsResponse(s), nil
}

func (uc *SettingsUseCase) defaults() *entity.Settings {
	return &entity.Settings{
		QuotePrefix:      uc.opts.QuotePrefix,
		InvoicePrefix:    uc.opts.InvoicePrefix,
		PaymentDelayDays: uc.opts.PaymentDelay,
	}
}

// detectLogoType determina el content type por el contenido del archivo, no por el declarado en el formulario.
func detectLogoType(logo *dto.LogoUpload) (string, error) {
	if logo.Size > MaxLogoSize || int64(len(logo.Data)) > MaxLogoSize {
		return "", &domain.Error{
			Kind:    domain.ErrInvalidArgument,
			Message: "le logo dépasse la taille maximale autorisée",
			Details: map[string]any{"maxBytes": MaxLogoSize, "size": len(logo.Data)},
		}
	}
	if len(logo.Data) == 0 {
		return "", domain.Invalid("le fichier du logo est vide")
	}
	mt := mimetype.Detect(logo.Data)
	ct := ""
	for accepted := range logoTypes {
		if mt.Is(accepted) {
			ct = accepted
			break
		}
	}
	if ct == "" {
		ct = mt.String()
		return "", &domain.Error{
			Kind:    domain.ErrInvalidArgument,
			Message: "format de logo non supporté (png, jpeg, svg ou webp)",
			Details: map[string]any{"contentType": ct},
		}
	}
	return ct, nil
}

// Save guarda los parámetros. Si llega un logo se valida, se sube y el anterior se borra (best-effort).
func (uc *SettingsUseCase) Save(ctx context.Context, in dto.SettingsRequest, logo *dto.LogoUpload) (*dto.SettingsResponse, error) {
	if strings.TrimSpace(in.CompanyName) == "" {
		return nil, domain.Invalid("le nom de l'entreprise est requis")
	}
	if in.PaymentDelay < 0 {
		return nil, domain.Invalid("le délai de paiement ne peut pas être négatif")
	}
	var logoType string
	if logo != nil {
		var err error
		if logoType, err = detectLogoType(logo); err != nil {
			return nil, err
		}
	}

	current, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = uc.defaults()
	}
	oldKey := current.LogoKey

	s := *current
	s.CompanyName = strings.TrimSpace(in.CompanyName)
	s.Address = strings.TrimSpace(in.Address)
	s.ZipCode = strings.TrimSpace(in.ZipCode)
	s.City = strings.TrimSpace(in.City)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Email = strings.TrimSpace(in.Email)
	s.SIRET = strings.TrimSpace(in.SIRET)
	s.PaymentDelayDays = in.PaymentDelay
	s.DefaultConditions = in.DefaultConditions
	s.LegalMentions = in.LegalMentions
	if p := strings.TrimSpace(in.QuotePrefix); p != "" {
		s.QuotePrefix = p
	}
	if p := strings.TrimSpace(in.InvoicePrefix); p != "" {
		s.InvoicePrefix = p
	}
	if in.RemoveLogo {
		s.LogoKey, s.LogoContentType = "", ""
	}

	if logo != nil {
		key := path.Join("logo", uuid.New().String()+logoTypes[logoType])
		err := uc.storage.Upload(ctx, UploadInput{
			Key:         key,
			Body:        bytes.NewReader(logo.Data),
			ContentType: logoType,
			Size:        int64(len(logo.Data)),
		})
		if err != nil {
			return nil, err
		}
		s.LogoKey, s.LogoContentType = key, logoType
	}
	s.UpdatedAt = time.Now()

	if err := uc.repo.Save(ctx, &s); err != nil {
		if logo != nil {
			uc.deleteLogo(ctx, s.LogoKey)
		}
		return nil, err
	}
	if oldKey != "" && oldKey != s.LogoKey {
		uc.deleteLogo(ctx, oldKey)
	}
	return toSettingsResponse(&s), nil
}

func (uc *SettingsUseCase) deleteLogo(ctx context.Context, key string) {
	if err := uc.storage.Delete(ctx, key); err != nil {
		uc.log.Warn().Err(err).Str("op", "settings.logo.delete").Str("key", key).Msg("no se pudo borrar el logo")
	}
}

// Logo devuelve el contenido y content type del logo actual.
func (uc *SettingsUseCase) Logo(ctx context.Context) ([]byte, string, error) {
	s, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	if s == nil || s.LogoKey == "" {
		return nil, "", domain.NotFound("logo", "")
	}
	data, err := uc.storage.Download(ctx, s.LogoKey)
	if err != nil {
		return nil, "", err
	}
	return data, s.LogoContentType, nil
}

func toSettingsResponse(s *entity.Settings) *dto.SettingsResponse {
	out := &dto.SettingsResponse{
		CompanyName:       s.CompanyName,
		Address:           s.Address,
		ZipCode:           s.ZipCode,
		City:              s.City,
		Phone:             s.Phone,
		Email:             s.Email,
		SIRET:             s.SIRET,
		PaymentDelay:      s.PaymentDelayDays,
		QuotePrefix:       s.QuotePrefix,
		InvoicePrefix:     s.InvoicePrefix,
		DefaultConditions: s.DefaultConditions,
		LegalMentions:     s.LegalMentions,
		HasLogo:           s.LogoKey != "",
		UpdatedAt:         s.UpdatedAt,
	}
	if out.HasLogo {
		out.LogoURL = LogoURL
	}
	return out
}
