package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ChartMuseum) DeepCopyInto(out *ChartMuseum) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy copies the receiver, creating a new ChartMuseum.
func (in *ChartMuseum) DeepCopy() *ChartMuseum {
	if in == nil {
		return nil
	}
	out := new(ChartMuseum)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *ChartMuseum) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ChartMuseumList) DeepCopyInto(out *ChartMuseumList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]ChartMuseum, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new ChartMuseumList.
func (in *ChartMuseumList) DeepCopy() *ChartMuseumList {
	if in == nil {
		return nil
	}
	out := new(ChartMuseumList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *ChartMuseumList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ChartMuseumSpec) DeepCopyInto(out *ChartMuseumSpec) {
	*out = *in
	out.Storage = in.Storage
	if in.Replicas != nil {
		in, out := &in.Replicas, &out.Replicas
		*out = new(int32)
		**out = **in
	}
	if in.API != nil {
		in, out := &in.API, &out.API
		*out = new(bool)
		**out = **in
	}
	if in.Metrics != nil {
		in, out := &in.Metrics, &out.Metrics
		*out = new(bool)
		**out = **in
	}
	if in.ServicePort != nil {
		in, out := &in.ServicePort, &out.ServicePort
		*out = new(int32)
		**out = **in
	}
}

// DeepCopy copies the receiver, creating a new ChartMuseumSpec.
func (in *ChartMuseumSpec) DeepCopy() *ChartMuseumSpec {
	if in == nil {
		return nil
	}
	out := new(ChartMuseumSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ChartMuseumStatus) DeepCopyInto(out *ChartMuseumStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
	if in.LastReconcileTime != nil {
		in, out := &in.LastReconcileTime, &out.LastReconcileTime
		*out = (*in).DeepCopy()
	}
}

// DeepCopy copies the receiver, creating a new ChartMuseumStatus.
func (in *ChartMuseumStatus) DeepCopy() *ChartMuseumStatus {
	if in == nil {
		return nil
	}
	out := new(ChartMuseumStatus)
	in.DeepCopyInto(out)
	return out
}
