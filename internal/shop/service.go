package shop

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gazet_go/models"
	"gazet_go/pkg/storage"

	"github.com/google/uuid"
)

var (
	// ErrLookup - решение администратора нельзя исполнить: заявка, выбор или файл не найдены.
	ErrLookup = errors.New("moderation lookup failed")
)

const textWeeklyMissing = "Осы аптаның газеті әлі дайын емес. Кейінірек қайталаңыз."

// Transport - исходящие действия чата.
type Transport interface {
	SendText(ctx context.Context, to int64, text string, kb Keyboard) error
	// SendDocument отправляет файл по ссылке и возвращает отправленное сообщение.
	SendDocument(ctx context.Context, to int64, fileID, caption string, kb Keyboard) (models.MessageRef, error)
	EditCaption(ctx context.Context, ref models.MessageRef, caption string) error
	AnswerCallback(ctx context.Context, queryID int64, toast string) error
}

// Catalog - то, что магазину нужно от каталога.
type Catalog interface {
	Weekly() (string, bool)
	Issue(label string) (string, bool)
	IssueLabels(limit int) []string
	SetWeekly(ctx context.Context, fileID string) error
	AddIssue(ctx context.Context, label, fileID string) error
}

// Callback - нажатие кнопки.
type Callback struct {
	QueryID int64
	From    int64
	Data    string
	Message models.MessageRef
}

// Command - текстовое сообщение.
type Command struct {
	From int64
	Text string
}

// Upload - присланный файл или фото.
type Upload struct {
	From   int64
	FileID string
	Photo  bool
}

type Options struct {
	AdminID     int64
	Catalog     Catalog
	Selections  storage.Selections
	Intake      storage.IntakeStore
	Ledger      *storage.ModerationLedger
	Transport   Transport
	ContactText string
	Logger      *log.Logger
}

// Service - сценарий покупки: выбор -> чек -> решение администратора -> выдача PDF.
type Service struct {
	adminID    int64
	catalog    Catalog
	selections storage.Selections
	intake     storage.IntakeStore
	ledger     *storage.ModerationLedger
	tr         Transport
	contact    string
	log        *log.Logger

	newID func() string
	now   func() time.Time
}

func NewService(o Options) *Service {
	s := &Service{
		adminID:    o.AdminID,
		catalog:    o.Catalog,
		selections: o.Selections,
		intake:     o.Intake,
		ledger:     o.Ledger,
		tr:         o.Transport,
		contact:    o.ContactText,
		log:        o.Logger,
		newID:      uuid.NewString,
		now:        time.Now,
	}
	if s.contact == "" {
		s.contact = DefaultContactText
	}
	if s.log == nil {
		s.log = log.Default()
	}
	if s.selections == nil {
		s.selections = storage.NewMemorySelections()
	}
	if s.intake == nil {
		s.intake = storage.NewIntake()
	}
	if s.ledger == nil {
		s.ledger = storage.NewModerationLedger()
	}
	return s
}

// HandleCommand обрабатывает /start и команды администратора.
// Команды администратора от других пользователей молча игнорируются.
func (s *Service) HandleCommand(ctx context.Context, c Command) error {
	name, arg := splitCommand(c.Text)
	switch name {
	case "/start":
		return s.tr.SendText(ctx, c.From, textWelcome, MainMenu())
	case "/setweekly":
		if c.From != s.adminID {
			return nil
		}
		s.intake.ArmWeekly()
		s.log.Printf("ожидается PDF текущей недели")
		return s.tr.SendText(ctx, c.From, textAskWeekly, nil)
	case "/addissue":
		if c.From != s.adminID {
			return nil
		}
		if err := ValidateLabel(arg); err != nil {
			return s.tr.SendText(ctx, c.From, textAddIssueUsage, nil)
		}
		s.intake.ArmIssue(arg)
		s.log.Printf("ожидается PDF выпуска %q", arg)
		return s.tr.SendText(ctx, c.From, askIssueText(arg), nil)
	}
	return nil
}

// splitCommand отделяет "/cmd@bot" от аргумента.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	name, arg, _ := strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	return name, strings.TrimSpace(arg)
}

func (s *Service) HandleCallback(ctx context.Context, cb Callback) error {
	tag, err := ParseTag(cb.Data)
	if err != nil {
		s.log.Printf("[WARN] кнопка %q от %d: %v", cb.Data, cb.From, err)
		return s.tr.AnswerCallback(ctx, cb.QueryID, "")
	}

	switch tag.Action {
	case TagBack:
		return s.reply(ctx, cb, textMainMenu, MainMenu())
	case TagContact:
		return s.reply(ctx, cb, s.contact, nil)
	case TagArchive:
		kb := ArchiveMenu(s.catalog.IssueLabels(0))
		if kb == nil {
			return s.reply(ctx, cb, textArchiveEmpty, nil)
		}
		return s.reply(ctx, cb, textArchivePick, kb)
	case TagBuyWeekly:
		if _, ok := s.catalog.Weekly(); !ok {
			return s.reply(ctx, cb, textWeeklyMissing, nil)
		}
		s.selections.Set(cb.From, models.SelectionWeekly, models.WeeklyLabel)
		return s.reply(ctx, cb, paymentText(models.WeeklyLabel), nil)
	case TagBuyIssue:
		if _, ok := s.catalog.Issue(tag.Label); !ok {
			return s.reply(ctx, cb, textIssueNotFound, nil)
		}
		s.selections.Set(cb.From, models.SelectionIssue, tag.Label)
		return s.reply(ctx, cb, paymentText(tag.Label), nil)
	case TagApprove, TagReject:
		if cb.From != s.adminID {
			return s.tr.AnswerCallback(ctx, cb.QueryID, "")
		}
		if tag.Action == TagApprove {
			return s.approve(ctx, cb, tag.UserID)
		}
		return s.reject(ctx, cb, tag.UserID)
	}
	return s.tr.AnswerCallback(ctx, cb.QueryID, "")
}

// reply отвечает в чат нажавшего и закрывает индикатор загрузки на кнопке.
func (s *Service) reply(ctx context.Context, cb Callback, text string, kb Keyboard) error {
	err := s.tr.SendText(ctx, cb.From, text, kb)
	return errors.Join(err, s.tr.AnswerCallback(ctx, cb.QueryID, ""))
}

// HandleUpload обрабатывает присланный файл: сначала режим приёма администратора,
// затем чек покупателя.
func (s *Service) HandleUpload(ctx context.Context, u Upload) error {
	if u.From == s.adminID {
		if handled, err := s.intakeUpload(ctx, u); handled {
			return err
		}
	}

	sel, ok := s.selections.Get(u.From)
	if !ok {
		return s.tr.SendText(ctx, u.From, textSelectFirst, nil)
	}

	req := models.ModerationRequest{
		ID:          s.newID(),
		UserID:      u.From,
		Selection:   sel,
		ProofFileID: u.FileID,
		Caption:     moderationCaption(u.From, sel.Label),
		Status:      models.ModerationOpen,
		CreatedAt:   s.now().UTC(),
	}
	ref, err := s.tr.SendDocument(ctx, s.adminID, u.FileID, req.Caption, ModerationControls(u.From))
	if err != nil {
		s.log.Printf("[ERROR] заявка %s: пересылка чека администратору: %v", req.ID, err)
		return errors.Join(err, s.tr.SendText(ctx, u.From, textProofFailed, nil))
	}
	req.Message = ref
	s.ledger.Add(req)
	s.log.Printf("заявка %s: чек от %d (%s) передан администратору", req.ID, u.From, sel.Label)

	return s.tr.SendText(ctx, u.From, textProofAccepted, nil)
}

// intakeUpload сохраняет файл администратора в каталог, если взведён режим приёма.
// При ошибке записи режим возвращается, чтобы файл можно было прислать ещё раз.
func (s *Service) intakeUpload(ctx context.Context, u Upload) (bool, error) {
	state := s.intake.Disarm()
	if !state.Armed() {
		return false, nil
	}
	if u.Photo {
		s.intake.Restore(state)
		return true, s.tr.SendText(ctx, s.adminID, textIntakeNeedFile, nil)
	}

	var (
		err  error
		done string
	)
	switch state.Mode() {
	case models.IntakeWeekly:
		err = s.catalog.SetWeekly(ctx, u.FileID)
		done = textWeeklyUpdated
	case models.IntakeIssue:
		err = s.catalog.AddIssue(ctx, state.Label(), u.FileID)
		done = textIssueAdded
	}
	if err != nil {
		s.log.Printf("[ERROR] приём файла (%s %q): %v", state.Mode(), state.Label(), err)
		s.intake.Restore(state)
		return true, s.tr.SendText(ctx, s.adminID, textPersistFailed, nil)
	}

	s.log.Printf("каталог обновлён: %s %q", state.Mode(), state.Label())
	return true, s.tr.SendText(ctx, s.adminID, done, nil)
}

func (s *Service) approve(ctx context.Context, cb Callback, userID int64) error {
	req, ok, err := s.claim(ctx, cb, userID)
	if !ok {
		return err
	}

	fileID, err := s.resolve(req)
	if err != nil {
		s.ledger.Release(cb.Message)
		return s.lookupFailed(ctx, cb, userID, err)
	}
	if _, err := s.tr.SendDocument(ctx, userID, fileID, "", nil); err != nil {
		s.ledger.Release(cb.Message)
		s.log.Printf("[ERROR] заявка %s: отправка PDF пользователю %d: %v", req.ID, userID, err)
		return errors.Join(err, s.tr.AnswerCallback(ctx, cb.QueryID, toastFailed))
	}

	done, err := s.ledger.Finish(cb.Message, models.ModerationApproved)
	if err != nil {
		return errors.Join(err, s.tr.AnswerCallback(ctx, cb.QueryID, toastResolved))
	}
	s.log.Printf("заявка %s: подтверждена, PDF %q отправлен %d", req.ID, req.Selection.Label, userID)
	return s.closeRequest(ctx, cb, done, markApproved, toastSent)
}

func (s *Service) reject(ctx context.Context, cb Callback, userID int64) error {
	req, ok, err := s.claim(ctx, cb, userID)
	if !ok {
		return err
	}

	if err := s.tr.SendText(ctx, userID, textRejected, nil); err != nil {
		s.ledger.Release(cb.Message)
		s.log.Printf("[ERROR] заявка %s: уведомление об отказе %d: %v", req.ID, userID, err)
		return errors.Join(err, s.tr.AnswerCallback(ctx, cb.QueryID, toastFailed))
	}

	done, err := s.ledger.Finish(cb.Message, models.ModerationRejected)
	if err != nil {
		return errors.Join(err, s.tr.AnswerCallback(ctx, cb.QueryID, toastResolved))
	}
	s.log.Printf("заявка %s: отклонена", req.ID)
	return s.closeRequest(ctx, cb, done, markRejected, toastRejected)
}

// claim захватывает заявку под сообщением администратора.
// ok == false означает, что ответ на нажатие уже отправлен.
func (s *Service) claim(ctx context.Context, cb Callback, userID int64) (models.ModerationRequest, bool, error) {
	req, err := s.ledger.Claim(cb.Message)
	switch {
	case errors.Is(err, storage.ErrRequestResolved):
		return req, false, s.tr.AnswerCallback(ctx, cb.QueryID, toastResolved)
	case errors.Is(err, storage.ErrRequestBusy):
		return req, false, s.tr.AnswerCallback(ctx, cb.QueryID, toastBusy)
	case err != nil:
		return req, false, s.lookupFailed(ctx, cb, userID, fmt.Errorf("%w: %w", ErrLookup, err))
	}
	if req.UserID != userID {
		s.ledger.Release(cb.Message)
		return req, false, s.lookupFailed(ctx, cb, userID,
			fmt.Errorf("%w: заявка принадлежит пользователю %d", ErrLookup, req.UserID))
	}
	return req, true, nil
}

// resolve находит файл по выбору пользователя на момент подтверждения.
// Выбор должен быть тем же, что был при отправке чека.
func (s *Service) resolve(req models.ModerationRequest) (string, error) {
	sel, ok := s.selections.Get(req.UserID)
	if !ok {
		return "", fmt.Errorf("%w: у пользователя %d нет выбора", ErrLookup, req.UserID)
	}
	if sel.Revision != req.Selection.Revision {
		return "", fmt.Errorf("%w: выбор пользователя %d изменился (%q -> %q)",
			ErrLookup, req.UserID, req.Selection.Label, sel.Label)
	}

	var (
		fileID string
		found  bool
	)
	switch sel.Kind {
	case models.SelectionWeekly:
		fileID, found = s.catalog.Weekly()
	case models.SelectionIssue:
		fileID, found = s.catalog.Issue(sel.Label)
	}
	if !found {
		return "", fmt.Errorf("%w: файл для %q не найден в каталоге", ErrLookup, sel.Label)
	}
	return fileID, nil
}

func (s *Service) lookupFailed(ctx context.Context, cb Callback, userID int64, reason error) error {
	s.log.Printf("[ERROR] решение по %d не исполнено: %v", userID, reason)
	err := s.tr.SendText(ctx, s.adminID, lookupFailedText(userID, reason), nil)
	return errors.Join(err, s.tr.AnswerCallback(ctx, cb.QueryID, toastFailed))
}

// closeRequest дописывает отметку к подписи сообщения администратора.
func (s *Service) closeRequest(ctx context.Context, cb Callback, req models.ModerationRequest, mark, toast string) error {
	err := s.tr.EditCaption(ctx, cb.Message, withMark(req.Caption, mark))
	return errors.Join(err, s.tr.AnswerCallback(ctx, cb.QueryID, toast))
}

func withMark(caption, mark string) string {
	if strings.HasSuffix(caption, "\n"+mark) {
		return caption
	}
	return caption + "\n" + mark
}
