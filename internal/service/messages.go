package service

// Prompts sent to the vision model.
const (
	PromptImage       = "Опиши, что ты видишь на этом изображении. Будь подробным, но лаконичным."
	PromptImagePrefix = "Опиши, что ты видишь на этом изображении. "
	PromptSingleFrame = "Это кадр из видео. Опиши, что ты видишь, и предположи, о чем может быть это видео."
	PromptMultiFrame  = "Это несколько кадров из видео. Проанализируй их и расскажи, о чем видео, что происходит в нем, и если это что-то требующее корректировки или совета, дай рекомендации по улучшению."
	PromptVideoFix    = "Это видео, которое пользователь хочет исправить или улучшить. Проанализируй его содержание, выяви возможные проблемы и предложи конкретные решения. Контекст от пользователя: "
	PromptVideo       = "Это видео от пользователя. Проанализируй его и дай подробный ответ, учитывая контекст: "
	PromptVideoNote   = "Это круговое видео из Telegram (video note). Проанализируй, что на нем происходит и дай подробный ответ. Если человек просит о помощи или задает вопрос, попробуй ответить по сути."
)

// User-facing apologies.
const (
	MsgImageError          = "Извините, но у меня возникла ошибка при анализе изображения. Пожалуйста, попробуйте еще раз позже."
	MsgVideoError          = "Извините, но у меня возникла ошибка при анализе видео. Пожалуйста, попробуйте еще раз позже."
	MsgFrameError          = "Извините, но у меня возникла ошибка при извлечении кадров из видео."
	MsgAudioFormatError    = "Извините, но я не смог преобразовать аудиофайл в поддерживаемый формат."
	MsgSpeechNotRecognized = "Извините, я не смог распознать речь в аудиосообщении. Возможно, качество звука недостаточно хорошее или запись слишком тихая."
	MsgAudioError          = "Извините, но у меня возникла ошибка при обработке аудиосообщения. Пожалуйста, попробуйте еще раз позже."
	MsgChatError           = "Извините, но у меня возникла ошибка при генерации ответа. Пожалуйста, попробуйте обратиться ко мне снова чуть позже. Если проблема повторится, возможно, стоит сообщить об этом моему создателю."

	MsgGenericError    = "😓 Ой! У меня возникла небольшая проблема в процессе обработки. 🤖 Мои схемы немного перегрузились. Не мог бы ты попробовать сформулировать вопрос по-другому? Или, возможно, попробуй повторить запрос через минуту. Приношу извинения за неудобства! 🙏"
	MsgPhotoFailed     = "😓 Ой! У меня возникла проблема при обработке фотографии. Пожалуйста, попробуйте отправить её еще раз или в другом формате."
	MsgVideoFailed     = "😓 Ой! У меня возникла проблема при обработке видео. Пожалуйста, попробуйте отправить его еще раз или в другом формате."
	MsgVoiceFailed     = "😓 Ой! У меня возникла проблема при обработке голосового сообщения. Пожалуйста, попробуйте отправить его еще раз или напишите текстом."
	MsgVideoNoteFailed = "😓 Ой! У меня возникла проблема при обработке видеосообщения. Пожалуйста, попробуйте отправить его еще раз или опишите ситуацию текстом."
	MsgVoiceUnclear    = "😕 Извините, я не смог разобрать, что было сказано в голосовом сообщении. Возможно, качество звука не очень хорошее или есть фоновый шум. Не могли бы вы повторить голосовое сообщение или написать текстом?"
)

// TranscriptBanner prefixes a voice reply with what was heard.
const TranscriptBanner = "🎙 Я распознал: \"%s\"\n\n"
