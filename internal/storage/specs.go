package storage

import (
	"context"
	"encoding/json"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/imamik/museumctl/internal/graph"
)

// Resource kinds declared by storage providers.
const (
	KindBucket    graph.Kind = "Bucket"
	KindPrincipal graph.Kind = "Principal"
	KindAccessKey graph.Kind = "AccessKey"
	KindSecret    graph.Kind = "Secret"
)

// BucketSpec declares an object storage bucket for chart packages.
type BucketSpec struct {
	// RequestedName is the bucket name the composition asks for. The
	// engine may adjust it, e.g. to satisfy global uniqueness.
	RequestedName string
	Region        string
	// Name is the actual bucket name, resolved by the engine.
	Name *graph.Future[string]
}

// PrincipalSpec declares a machine identity whose access is limited to one
// bucket: listing it, plus reading, writing and deleting its objects.
type PrincipalSpec struct {
	UserName   string
	PolicyName string
	// Bucket scopes the inline policy to the actual bucket name.
	Bucket *graph.Future[string]
}

type policyDocument struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Sid      string   `json:"Sid"`
	Effect   string   `json:"Effect"`
	Action   []string `json:"Action"`
	Resource []string `json:"Resource"`
}

// PolicyDocument renders the inline IAM policy JSON. It blocks until the
// bucket name is known.
func (p *PrincipalSpec) PolicyDocument(ctx context.Context) (string, error) {
	bucket, err := p.Bucket.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("rendering policy for %q: %w", p.UserName, err)
	}

	doc := policyDocument{
		Version: "2012-10-17",
		Statement: []policyStatement{
			{
				Sid:      "ListBucket",
				Effect:   "Allow",
				Action:   []string{"s3:ListBucket"},
				Resource: []string{fmt.Sprintf("arn:aws:s3:::%s", bucket)},
			},
			{
				Sid:      "ObjectReadWrite",
				Effect:   "Allow",
				Action:   []string{"s3:GetObject", "s3:PutObject", "s3:DeleteObject"},
				Resource: []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucket)},
			},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal policy document: %w", err)
	}
	return string(data), nil
}

// AccessKeySpec declares an API key pair for a principal. Both halves are
// engine outputs.
type AccessKeySpec struct {
	UserName string
	ID       *graph.Future[string]
	Secret   *graph.Future[string]
}

// SecretSpec declares a Kubernetes secret carrying storage credentials into
// the target namespace.
type SecretSpec struct {
	Name      string
	Namespace string
	Labels    map[string]string
	// Data holds the secret payload. Values may be deferred behind engine
	// outputs, such as a freshly minted access key.
	Data map[string]graph.Value
}

// Render materializes the secret once every data value is available.
func (s *SecretSpec) Render(ctx context.Context) (*corev1.Secret, error) {
	data := make(map[string][]byte, len(s.Data))
	for key, value := range s.Data {
		v, err := value.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("rendering secret %q key %q: %w", s.Name, key, err)
		}
		data[key] = []byte(v)
	}

	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Secret"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.Name,
			Namespace: s.Namespace,
			Labels:    s.Labels,
		},
		Type: corev1.SecretTypeOpaque,
		Data: data,
	}, nil
}
