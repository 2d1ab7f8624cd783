package service

import (
	"Renwuquan/internal/clients/tts"
	"Renwuquan/internal/config"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Service 封装了媒体文件的上传与语音合成逻辑。
// 所有对象都写入配置的默认存储桶，对外返回可访问的 URL。
type Service struct {
	client *minio.Client
	tts    *tts.Client
	cfg    config.MinIOConfig
}

// NewService 创建一个新的 Service 实例。
func NewService(client *minio.Client, ttsClient *tts.Client, cfg config.MinIOConfig) *Service {
	return &Service{client: client, tts: ttsClient, cfg: cfg}
}

// Upload 上传一个聊天附件。Content-Type 通过嗅探文件头得到，
// 不信任客户端声明的类型。
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	// mimetype 嗅探会消费 reader 的头部，读完后拼回完整流。
	header := bytes.NewBuffer(nil)
	mtype, err := mimetype.DetectReader(io.TeeReader(r, header))
	if err != nil {
		return "", fmt.Errorf("识别文件类型失败: %w", err)
	}
	full := io.MultiReader(header, r)

	ext := mtype.Extension()
	if ext == "" {
		ext = path.Ext(filename)
	}
	key := fmt.Sprintf("uploads/%s%s", uuid.NewString(), ext)

	_, err = s.client.PutObject(ctx, s.cfg.Bucket, key, full, -1, minio.PutObjectOptions{
		ContentType: mtype.String(),
	})
	if err != nil {
		return "", fmt.Errorf("上传到对象存储失败: %w", err)
	}
	return s.objectURL(key), nil
}

// SynthesizeVoice 合成一段语音消息并持久化到对象存储，返回音频 URL。
func (s *Service) SynthesizeVoice(ctx context.Context, text, voice string) (string, error) {
	audio, err := s.tts.Synthesize(ctx, text, voice)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("voice/%s.mp3", uuid.NewString())
	_, err = s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(audio), int64(len(audio)),
		minio.PutObjectOptions{ContentType: "audio/mpeg"})
	if err != nil {
		return "", fmt.Errorf("保存语音文件失败: %w", err)
	}
	return s.objectURL(key), nil
}

func (s *Service) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.cfg.PublicURL, s.cfg.Bucket, key)
}
