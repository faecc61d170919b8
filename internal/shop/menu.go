package shop

// Button - кнопка под сообщением.
type Button struct {
	Text string
	Data string
}

// Keyboard - строки кнопок.
type Keyboard [][]Button

// ArchivePreviewLimit - сколько последних выпусков показывать в архиве.
const ArchivePreviewLimit = 15

func MainMenu() Keyboard {
	return Keyboard{
		{{Text: buttonWeekly, Data: TagBuyWeekly}},
		{{Text: buttonArchive, Data: TagArchive}},
		{{Text: buttonContact, Data: TagContact}},
	}
}

// ArchiveMenu строит клавиатуру архива по меткам (уже упорядоченным) и кнопку назад.
// Метки, которые не проходят ValidateLabel, пропускаются: их кнопка не влезет
// в callback data или не разберётся обратно. Для пустого архива возвращает nil.
func ArchiveMenu(labels []string) Keyboard {
	kb := make(Keyboard, 0, ArchivePreviewLimit+1)
	for _, l := range labels {
		if len(kb) == ArchivePreviewLimit {
			break
		}
		if ValidateLabel(l) != nil {
			continue
		}
		kb = append(kb, []Button{{Text: l, Data: BuyIssueTag(l)}})
	}
	if len(kb) == 0 {
		return nil
	}
	return append(kb, []Button{{Text: buttonBack, Data: TagBack}})
}

// ModerationControls - кнопки подтверждения и отказа для администратора.
func ModerationControls(userID int64) Keyboard {
	return Keyboard{{
		{Text: buttonApprove, Data: ApproveTag(userID)},
		{Text: buttonReject, Data: RejectTag(userID)},
	}}
}
