//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"

	"nauticai/internal/domain/entity"
	"nauticai/internal/domain/port"
)

const (
	inputSize    = 640  // сторона входного тензора YOLOv8
	nmsThreshold = 0.45 // порог подавления перекрывающихся боксов
)

// ortEnv управляет глобальной инициализацией ONNX Runtime (один раз на процесс).
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// YOLODetector запускает ONNX-модель YOLOv8 через ONNX Runtime и
// размечает кадры средствами OpenCV.
type YOLODetector struct {
	modelPath string
	libPath   string
	classes   []string

	// Сессия загружается лениво при первом запросе, чтобы старт
	// сервиса и проверка живости оставались лёгкими.
	once    sync.Once
	initErr error
	session *ort.DynamicAdvancedSession
	inName  string
	outName string
	outRows int64 // 4 координаты + число классов
	outCols int64 // число якорей

	mu sync.Mutex // сессия не рассчитана на параллельный Run
}

// NewYOLODetector создаёт детектор для модели по указанному пути.
func NewYOLODetector(modelPath, libPath string) *YOLODetector {
	if libPath == "" {
		libPath = filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	}
	return &YOLODetector{
		modelPath: modelPath,
		libPath:   libPath,
		classes:   entity.ClassNames,
	}
}

// ModelName возвращает человекочитаемое имя модели.
func (d *YOLODetector) ModelName() string {
	return fmt.Sprintf("YOLOv8 ONNX (%s)", filepath.Base(d.modelPath))
}

func (d *YOLODetector) ensureSession() error {
	d.once.Do(func() {
		if err := initORT(d.libPath); err != nil {
			d.initErr = fmt.Errorf("onnx: failed to initialize runtime: %w", err)
			return
		}

		inputs, outputs, err := ort.GetInputOutputInfo(d.modelPath)
		if err != nil {
			d.initErr = fmt.Errorf("onnx: failed to read model info: %w", err)
			return
		}
		if len(inputs) == 0 || len(outputs) == 0 {
			d.initErr = fmt.Errorf("onnx: model has no inputs or outputs")
			return
		}

		dims := outputs[0].Dimensions
		if len(dims) != 3 {
			d.initErr = fmt.Errorf("onnx: expected 3D output tensor, got %v", dims)
			return
		}
		if int(dims[1])-4 != len(d.classes) {
			d.initErr = fmt.Errorf("onnx: model predicts %d classes, expected %d", dims[1]-4, len(d.classes))
			return
		}

		opts, err := ort.NewSessionOptions()
		if err != nil {
			d.initErr = fmt.Errorf("onnx: failed to create session options: %w", err)
			return
		}
		defer opts.Destroy()
		opts.SetIntraOpNumThreads(4)
		opts.SetInterOpNumThreads(1)

		session, err := ort.NewDynamicAdvancedSession(
			d.modelPath,
			[]string{inputs[0].Name},
			[]string{outputs[0].Name},
			opts,
		)
		if err != nil {
			d.initErr = fmt.Errorf("onnx: failed to create session: %w", err)
			return
		}

		d.session = session
		d.inName = inputs[0].Name
		d.outName = outputs[0].Name
		d.outRows = dims[1]
		d.outCols = dims[2]
	})
	return d.initErr
}

// Predict запускает инференс на одном кадре и возвращает находки
// вместе с аннотированным кадром.
func (d *YOLODetector) Predict(ctx context.Context, frame []byte, confidence float64) (*port.FramePrediction, error) {
	_ = ctx

	mat, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		if !mat.Empty() {
			mat.Close()
		}
		return nil, fmt.Errorf("%w: image decode failed", port.ErrUndecodableFrame)
	}
	defer mat.Close()

	if err := d.ensureSession(); err != nil {
		return nil, err
	}

	input, err := blobFromMat(mat)
	if err != nil {
		return nil, err
	}

	output, err := d.infer(input)
	if err != nil {
		return nil, err
	}

	sx := float64(mat.Cols()) / float64(inputSize)
	sy := float64(mat.Rows()) / float64(inputSize)
	detections := d.parseOutput(output, confidence, sx, sy)

	annotated, err := annotate(mat, detections)
	if err != nil {
		return nil, err
	}

	return &port.FramePrediction{Detections: detections, Annotated: annotated}, nil
}

// Close освобождает сессию ONNX.
func (d *YOLODetector) Close() error {
	if d.session != nil {
		return d.session.Destroy()
	}
	return nil
}

// blobFromMat готовит входной тензор: resize до 640x640, BGR→RGB,
// нормализация в [0, 1], порядок NCHW.
func blobFromMat(mat gocv.Mat) ([]float32, error) {
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(inputSize, inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	data, err := blob.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("onnx: blob data: %w", err)
	}
	// Копируем до закрытия Mat, слайс ссылается на его память.
	out := make([]float32, len(data))
	copy(out, data)
	return out, nil
}

func (d *YOLODetector) infer(input []float32) ([]float32, error) {
	inShape := ort.NewShape(1, 3, inputSize, inputSize)
	tIn, err := ort.NewTensor(inShape, input)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer tIn.Destroy()

	outShape := ort.NewShape(1, d.outRows, d.outCols)
	tOut, err := ort.NewEmptyTensor[float32](outShape)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer tOut.Destroy()

	d.mu.Lock()
	err = d.session.Run([]ort.Value{tIn}, []ort.Value{tOut})
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	src := tOut.GetData()
	out := make([]float32, len(src))
	copy(out, src)
	return out, nil
}

// parseOutput разбирает тензор [1, 4+classes, anchors]: для каждого
// якоря берётся лучший класс, затем боксы проходят NMS.
func (d *YOLODetector) parseOutput(output []float32, confidence, sx, sy float64) []entity.Detection {
	cols := int(d.outCols)

	var rects []image.Rectangle
	var scores []float32
	var classIdx []int

	for i := 0; i < cols; i++ {
		best := -1
		bestScore := float32(0)
		for c := range d.classes {
			score := output[(4+c)*cols+i]
			if score > bestScore {
				bestScore = score
				best = c
			}
		}
		if best < 0 || float64(bestScore) < confidence {
			continue
		}

		cx := float64(output[0*cols+i])
		cy := float64(output[1*cols+i])
		w := float64(output[2*cols+i])
		h := float64(output[3*cols+i])

		rect := image.Rect(
			int((cx-w/2)*sx),
			int((cy-h/2)*sy),
			int((cx+w/2)*sx),
			int((cy+h/2)*sy),
		)
		rects = append(rects, rect)
		scores = append(scores, bestScore)
		classIdx = append(classIdx, best)
	}

	if len(rects) == 0 {
		return nil
	}

	keep := gocv.NMSBoxes(rects, scores, float32(confidence), nmsThreshold)
	detections := make([]entity.Detection, 0, len(keep))
	for _, i := range keep {
		r := rects[i]
		detections = append(detections, entity.Detection{
			ClassName:  d.classes[classIdx[i]],
			Confidence: float64(scores[i]),
			Box: entity.BoundingBox{
				X:      r.Min.X,
				Y:      r.Min.Y,
				Width:  r.Dx(),
				Height: r.Dy(),
			},
		})
	}
	return detections
}

// annotate рисует боксы с подписями поверх кадра и кодирует его в JPEG.
func annotate(mat gocv.Mat, detections []entity.Detection) ([]byte, error) {
	out := mat.Clone()
	defer out.Close()

	for _, det := range detections {
		rect := image.Rect(det.Box.X, det.Box.Y, det.Box.X+det.Box.Width, det.Box.Y+det.Box.Height)
		c := severityColor(entity.SeverityOf(det.ClassName))
		gocv.Rectangle(&out, rect, c, 2)

		label := fmt.Sprintf("%s %.2f", det.ClassName, det.Confidence)
		gocv.PutText(&out, label, image.Pt(rect.Min.X, rect.Min.Y-6), gocv.FontHersheySimplex, 0.5, c, 1)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, out)
	if err != nil {
		return nil, fmt.Errorf("encode annotated frame: %w", err)
	}
	defer buf.Close()

	encoded := make([]byte, buf.Len())
	copy(encoded, buf.GetBytes())
	return encoded, nil
}

func severityColor(sev entity.Severity) color.RGBA {
	switch sev {
	case entity.SeverityCritical:
		return color.RGBA{R: 255, A: 255}
	case entity.SeverityWarning:
		return color.RGBA{R: 255, G: 165, A: 255}
	default:
		return color.RGBA{G: 255, A: 255}
	}
}

var _ port.AnomalyDetector = (*YOLODetector)(nil)
