package service

import (
	"context"

	"reflectup/internal/core/domain"
)

type mockLoader struct {
	asset     *domain.ImageAsset
	loadErr   error
	loadCalls []string
	thumb     *domain.ImageAsset
	thumbErr  error
}

func (m *mockLoader) Load(name string, _ []byte) (*domain.ImageAsset, error) {
	m.loadCalls = append(m.loadCalls, name)
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.asset, nil
}

func (m *mockLoader) Thumbnail(_ *domain.ImageAsset, _, _ int) (*domain.ImageAsset, error) {
	if m.thumbErr != nil {
		return nil, m.thumbErr
	}
	return m.thumb, nil
}

type mockRenderer struct {
	preview     *domain.ImageAsset
	renderErr   error
	renderCalls []domain.ReflectionParameters
	hook        func()
}

func (m *mockRenderer) Composite(_ *domain.ImageAsset, params domain.ReflectionParameters) (*domain.ImageAsset, error) {
	m.renderCalls = append(m.renderCalls, params)
	if m.hook != nil {
		m.hook()
	}
	if m.renderErr != nil {
		return nil, m.renderErr
	}
	return m.preview, nil
}

type mockEnlarger struct {
	result     *domain.ImageAsset
	enlargeErr error
	requests   []domain.EnlargeRequest
	release    chan struct{}
}

func (m *mockEnlarger) Enlarge(ctx context.Context, req domain.EnlargeRequest) (*domain.ImageAsset, error) {
	m.requests = append(m.requests, req)
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, &domain.ProcessingError{Kind: domain.ConnectionError, Err: ctx.Err()}
		}
	}
	if m.enlargeErr != nil {
		return nil, m.enlargeErr
	}
	return m.result, nil
}

type mockSelectionSource struct {
	events       chan domain.SelectionEvent
	current      domain.ElementRef
	currentErr   error
	resolveName  string
	resolveData  []byte
	resolveErr   error
	resolveCalls []domain.ElementRef
	resolveHook  func()
}

func (m *mockSelectionSource) Subscribe(_ context.Context) (<-chan domain.SelectionEvent, error) {
	return m.events, nil
}

func (m *mockSelectionSource) Current(_ context.Context) (domain.ElementRef, error) {
	return m.current, m.currentErr
}

func (m *mockSelectionSource) Resolve(_ context.Context, ref domain.ElementRef) (string, []byte, error) {
	m.resolveCalls = append(m.resolveCalls, ref)
	if m.resolveHook != nil {
		m.resolveHook()
	}
	if m.resolveErr != nil {
		return "", nil, m.resolveErr
	}
	return m.resolveName, m.resolveData, nil
}

type mockAssetStore struct {
	ref       domain.AssetRef
	uploadErr error
	uploads   []domain.UploadRequest
}

func (m *mockAssetStore) Upload(_ context.Context, req domain.UploadRequest) (domain.AssetRef, error) {
	m.uploads = append(m.uploads, req)
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	return m.ref, nil
}

type mockDesign struct {
	replaceErr   error
	replaceCalls []domain.ElementRef
	addErr       error
	addCalls     []domain.InsertPayload
	addHook      func()
}

func (m *mockDesign) ReplaceImage(_ context.Context, element domain.ElementRef, _ domain.AssetRef) error {
	m.replaceCalls = append(m.replaceCalls, element)
	return m.replaceErr
}

func (m *mockDesign) AddImage(_ context.Context, payload domain.InsertPayload) error {
	m.addCalls = append(m.addCalls, payload)
	if m.addHook != nil {
		m.addHook()
	}
	return m.addErr
}

type mockNotifier struct {
	progressCalls   []int
	processingKinds []domain.ErrorKind
	processingMsgs  []string
	acceptanceCalls []string
}

func (m *mockNotifier) Progress(percent int) {
	m.progressCalls = append(m.progressCalls, percent)
}

func (m *mockNotifier) NotifyProcessingError(kind domain.ErrorKind, message string) {
	m.processingKinds = append(m.processingKinds, kind)
	m.processingMsgs = append(m.processingMsgs, message)
}

func (m *mockNotifier) NotifyAcceptanceError(message string) {
	m.acceptanceCalls = append(m.acceptanceCalls, message)
}
