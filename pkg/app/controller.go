package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shouni/smartlayout-kit/pkg/credential"
	"github.com/shouni/smartlayout-kit/pkg/domain"
	"github.com/shouni/smartlayout-kit/pkg/generator"
	"github.com/shouni/smartlayout-kit/pkg/prompt"
)

const (
	// MsgNoImage は画像未選択で生成しようとした場合の表示メッセージです。
	MsgNoImage = "Please upload an image first."
	// MsgGenericFailure はエラーにメッセージが無い場合の表示メッセージです。
	MsgGenericFailure = "Failed to generate image. Please try again."
)

var (
	// ErrNoImage は画像がないまま生成が呼ばれたことを示します。通信は行われません。
	ErrNoImage = errors.New(MsgNoImage)
	// ErrGenerationInProgress は生成中に2回目の生成が呼ばれたことを示します。
	ErrGenerationInProgress = errors.New("generation already in progress")
)

// State は生成処理のライフサイクルです。
type State int

const (
	StateIdle State = iota
	StateGenerating
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateGenerating:
		return "generating"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Snapshot は表示層が読む状態のコピーです。
type Snapshot struct {
	State         State
	Image         *domain.ImagePayload
	Config        domain.GenerationConfig
	Result        *domain.GenerationResult
	Error         string
	ErrorCategory generator.Category
	Generating    bool
}

// Controller は選択中の画像・設定・結果を保持し、生成アクションを駆動します。
type Controller struct {
	gen      generator.ImageGenerator
	selector credential.Selector
	now      func() time.Time
	newID    func() string

	mu         sync.Mutex
	state      State
	image      *domain.ImagePayload
	config     domain.GenerationConfig
	result     *domain.GenerationResult
	errMsg     string
	errCat     generator.Category
	generating bool
}

// NewController は依存関係を注入して Controller を初期化します。selector は nil を許容します。
func NewController(gen generator.ImageGenerator, selector credential.Selector) (*Controller, error) {
	if gen == nil {
		return nil, errors.New("gen (generator.ImageGenerator) is required")
	}
	return &Controller{
		gen:      gen,
		selector: selector,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		config:   domain.NewGenerationConfig(),
	}, nil
}

// SelectImage は画像を差し替えます。前の画像は破棄されます。
func (c *Controller) SelectImage(p domain.ImagePayload) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img := p
	c.image = &img
}

// ClearImage は選択中の画像を取り除きます。
func (c *Controller) ClearImage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.image = nil
}

// SetAspectRatio は目標アスペクト比を変更します。
func (c *Controller) SetAspectRatio(r domain.AspectRatio) error {
	if _, err := domain.ParseAspectRatio(string(r)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.AspectRatio = r
	return nil
}

// SetImageSize は出力解像度を変更します。
func (c *Controller) SetImageSize(s domain.ImageSize) error {
	if _, err := domain.ParseImageSize(string(s)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.ImageSize = s
	return nil
}

// SetPrompt は任意の追加指示を設定します。
func (c *Controller) SetPrompt(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.Prompt = text
}

// DismissError は表示中のエラーを消します。
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
	c.errCat = generator.CategoryNone
	if c.state == StateFailed {
		c.state = StateIdle
	}
}

// Snapshot は現在の状態のコピーを返します。
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:         c.state,
		Config:        c.config,
		Error:         c.errMsg,
		ErrorCategory: c.errCat,
		Generating:    c.generating,
	}
	if c.image != nil {
		img := *c.image
		s.Image = &img
	}
	if c.result != nil {
		res := *c.result
		s.Result = &res
	}
	return s
}

// Generate は選択中の画像と設定で生成を1回実行します。
// 画像がなければ通信せずに ErrNoImage を返し、生成中なら ErrGenerationInProgress を返します。
func (c *Controller) Generate(ctx context.Context) (*domain.GenerationResult, error) {
	c.mu.Lock()
	if c.generating {
		c.mu.Unlock()
		return nil, ErrGenerationInProgress
	}
	if c.image.IsEmpty() {
		c.state = StateIdle
		c.errMsg = MsgNoImage
		c.errCat = generator.CategoryValidation
		c.mu.Unlock()
		return nil, ErrNoImage
	}

	cfg := c.config
	if err := cfg.Validate(); err != nil {
		c.state = StateIdle
		c.errMsg = err.Error()
		c.errCat = generator.CategoryValidation
		c.mu.Unlock()
		return nil, err
	}

	payload := *c.image
	c.generating = true
	c.state = StateGenerating
	c.errMsg = ""
	c.errCat = generator.CategoryNone
	c.result = nil
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.generating = false
		c.mu.Unlock()
	}()

	requestID := c.newID()
	slog.InfoContext(ctx, "レイアウト生成を開始します", "request_id", requestID, "aspect_ratio", cfg.AspectRatio, "image_size", cfg.ImageSize)

	url, err := c.gen.Generate(ctx, payload, cfg.AspectRatio, cfg.ImageSize, prompt.Build(cfg.Prompt, cfg.AspectRatio))
	if err != nil {
		c.fail(ctx, requestID, err)
		return nil, err
	}

	res := &domain.GenerationResult{
		ImageURL:    url,
		AspectRatio: cfg.AspectRatio,
		ImageSize:   cfg.ImageSize,
		RequestID:   requestID,
		GeneratedAt: c.now(),
	}

	c.mu.Lock()
	c.result = res
	c.state = StateSucceeded
	c.mu.Unlock()

	slog.InfoContext(ctx, "レイアウト生成が完了しました", "request_id", requestID)
	out := *res
	return &out, nil
}

func (c *Controller) fail(ctx context.Context, requestID string, err error) {
	msg := err.Error()
	if msg == "" {
		msg = MsgGenericFailure
	}
	cat := generator.CategoryOf(err)

	c.mu.Lock()
	c.errMsg = msg
	c.errCat = cat
	c.state = StateFailed
	c.mu.Unlock()

	slog.WarnContext(ctx, "レイアウト生成に失敗しました", "request_id", requestID, "category", cat, "error", err)

	if cat == generator.CategoryMissingCredential {
		if serr := credential.OpenSelection(ctx, c.selector); serr != nil {
			slog.WarnContext(ctx, "APIキーの再選択に失敗しました", "error", serr)
		}
	}
}
