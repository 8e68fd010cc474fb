package viz

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
)

type ImageContainer struct {
	name string
	data []byte
}

func (i *ImageContainer) Name() string { return i.name }
func (i *ImageContainer) Data() []byte { return i.data }

type Producer interface {
	Name() string
	GetImage() *ImageContainer
	AddPlotOption(opt PlotOptions)
}

// Server renders registered producers on an interval and serves the images
// over HTTP, grouped into buckets. Only buckets viewed within the last second
// are rendered.
type Server struct {
	images          map[string]map[string]*ImageContainer
	mu              sync.RWMutex
	srv             *http.Server
	producerBuckets map[string]map[string]Producer
	updateInterval  time.Duration
	enabled         bool
	lastViewed      map[string]time.Time
}

func NewServer(port int, updateInterval time.Duration) *Server {
	return &Server{
		images:          make(map[string]map[string]*ImageContainer),
		producerBuckets: make(map[string]map[string]Producer),
		lastViewed:      make(map[string]time.Time),
		srv:             &http.Server{Addr: fmt.Sprintf(":%d", port)},
		updateInterval:  updateInterval,
		enabled:         true,
	}
}

func (s *Server) Enable(enable bool) {
	s.mu.Lock()
	s.enabled = enable
	s.mu.Unlock()
}

func (s *Server) SetUpdateInterval(interval time.Duration) {
	s.mu.Lock()
	s.updateInterval = interval
	s.mu.Unlock()
}

func (s *Server) Register(key string, p Producer) {
	s.mu.Lock()
	bucket, ok := s.producerBuckets[key]
	if !ok {
		bucket = make(map[string]Producer)
		s.producerBuckets[key] = bucket
	}
	bucket[p.Name()] = p
	s.mu.Unlock()
}

func (s *Server) Buckets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.producerBuckets))
	for key := range s.producerBuckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *Server) producerNames(bucket string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.producerBuckets[bucket]
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, true
}

func (s *Server) markViewed(bucket string) {
	s.mu.Lock()
	s.lastViewed[bucket] = time.Now()
	s.mu.Unlock()
}

// Refresh renders every producer of the recently viewed buckets.
func (s *Server) Refresh() {
	s.mu.RLock()
	if !s.enabled {
		s.mu.RUnlock()
		return
	}
	var viewed []string
	for bucketName := range s.producerBuckets {
		if time.Since(s.lastViewed[bucketName]) < time.Second {
			viewed = append(viewed, bucketName)
		}
	}
	s.mu.RUnlock()

	var wg sync.WaitGroup
	for _, bucketName := range viewed {
		s.mu.RLock()
		producers := make([]Producer, 0, len(s.producerBuckets[bucketName]))
		for _, p := range s.producerBuckets[bucketName] {
			producers = append(producers, p)
		}
		s.mu.RUnlock()

		for _, producer := range producers {
			wg.Add(1)
			go func(bucket string, p Producer) {
				defer wg.Done()

				img := p.GetImage()
				if img == nil {
					return
				}

				s.mu.Lock()
				mb, ok := s.images[bucket]
				if !ok {
					mb = make(map[string]*ImageContainer)
					s.images[bucket] = mb
				}
				mb[img.name] = img
				s.mu.Unlock()
			}(bucketName, producer)
		}
	}
	wg.Wait()
}

func (s *Server) Image(bucket, name string) (*ImageContainer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[bucket][name]
	return img, ok
}

var viewTemplate = template.Must(template.New("view").Parse(`<html><head><title>Undertone Viz</title></head>
<script type="text/javascript">
	var toggleRefresh = true;
	function toggleOn() {
		toggleRefresh = !toggleRefresh;
	}
	function changeBucket() {
		var val = document.getElementById('bucketSelector').value;
		window.location.href = '/view/' + val;
	}
	window.onload = function() {
		for (var i = 0; i < {{len .Images}}; i++) {
			var img = document.getElementById('graph-' + i);
			setInterval(function(image) {
				if (toggleRefresh) {
					image.src = image.src.split("?")[0] + "?" + new Date().getTime();
				}
			}, {{.Interval}}, img);
		}
	}
</script>
<body style='background-color: black'>
<select id="bucketSelector" onchange="changeBucket()">
{{range .Buckets}}<option value="{{.}}"{{if eq . $.Bucket}} selected{{end}}>{{.}}</option>
{{end}}</select>
<button onclick="toggleOn()">Refresh?</button>
<div style="display: flex; flex-direction: row; flex-wrap: wrap">
{{range $idx, $img := .Images}}<div><img id="graph-{{$idx}}" src="/img/{{$.Bucket}}/{{$img}}?{{$.Now}}" /></div>
{{end}}</div>
</body></html>`))

// Handler returns the HTTP routes of the viewer.
func (s *Server) Handler() http.Handler {
	handler := httprouter.New()
	handler.GET("/", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var key string
		if buckets := s.Buckets(); len(buckets) > 0 {
			key = buckets[0]
		}

		w.Header().Set("Location", "/view/"+url.PathEscape(key))
		w.WriteHeader(http.StatusFound)
	})

	handler.GET("/view/:bucket", func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		bucket := params.ByName("bucket")

		images, ok := s.producerNames(bucket)
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.markViewed(bucket)

		s.mu.RLock()
		interval := s.updateInterval
		s.mu.RUnlock()

		w.Header().Add("Content-Type", "text/html")
		viewTemplate.Execute(w, struct {
			Bucket   string
			Buckets  []string
			Images   []string
			Interval int64
			Now      int64
		}{
			Bucket:   bucket,
			Buckets:  s.Buckets(),
			Images:   images,
			Interval: interval.Milliseconds(),
			Now:      time.Now().UnixMicro(),
		})
	})

	handler.GET("/img/:bucket/:img", func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		bucketName := params.ByName("bucket")
		s.markViewed(bucketName)

		img, ok := s.Image(bucketName, params.ByName("img"))
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Add("Content-Type", "image/png")
		w.Write(img.data)
	})

	return handler
}

func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}

// Run serves the viewer until ctx is cancelled or Stop is called.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			s.mu.RLock()
			interval := s.updateInterval
			s.mu.RUnlock()

			select {
			case <-ctx.Done():
				s.srv.Shutdown(context.Background())
				return
			case <-time.After(interval):
				s.Refresh()
			}
		}
	}()

	s.srv.Handler = s.Handler()

	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
