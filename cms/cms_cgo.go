//go:build cgo
// +build cgo

package cms

/*
#cgo pkg-config: lcms2
#include <stdlib.h>
#include <string.h>
#include <lcms2.h>

static cmsUInt32Number intent_to_lcms(int intent) {
	return (cmsUInt32Number)intent;
}

// build_transform opens source and destination profile handles from memory
// buffers (dst_data may be NULL, meaning "use the builtin sRGB profile"),
// creates a TYPE_RGB_16 transform and returns it, or NULL on failure.
static cmsHTRANSFORM build_transform(
	const unsigned char *src_data, unsigned long src_size,
	const unsigned char *dst_data, unsigned long dst_size,
	int intent, int use_bpc,
	cmsHPROFILE *out_src, cmsHPROFILE *out_dst
) {
	cmsHPROFILE srcProfile = cmsOpenProfileFromMem(src_data, (cmsUInt32Number)src_size);
	if (srcProfile == NULL) {
		return NULL;
	}

	cmsHPROFILE dstProfile;
	if (dst_data == NULL) {
		dstProfile = cmsCreate_sRGBProfile();
	} else {
		dstProfile = cmsOpenProfileFromMem(dst_data, (cmsUInt32Number)dst_size);
	}
	if (dstProfile == NULL) {
		cmsCloseProfile(srcProfile);
		return NULL;
	}

	// NOCACHE drops the transform's one-pixel result cache, the only part
	// of cmsDoTransform that is not safe for concurrent callers; without it
	// row bands could not share one transform handle.
	cmsUInt32Number flags = cmsFLAGS_NOCACHE;
	if (use_bpc) {
		flags |= cmsFLAGS_BLACKPOINTCOMPENSATION;
	}

	cmsHTRANSFORM xform = cmsCreateTransform(
		srcProfile, TYPE_RGB_16,
		dstProfile, TYPE_RGB_16,
		intent_to_lcms(intent), flags
	);

	*out_src = srcProfile;
	*out_dst = dstProfile;
	return xform;
}

static void apply_transform(cmsHTRANSFORM xform, const void *src, void *dst, unsigned int pixel_count) {
	cmsDoTransform(xform, src, dst, pixel_count);
}

// srgb_profile_bytes serializes the builtin sRGB profile to an in-memory ICC
// blob, used when the Profile Resolver needs concrete bytes to embed or
// checksum for an sRGB output policy.
static unsigned char *srgb_profile_bytes(unsigned long *out_size) {
	cmsHPROFILE p = cmsCreate_sRGBProfile();
	if (p == NULL) {
		return NULL;
	}
	cmsUInt32Number size = 0;
	if (!cmsSaveProfileToMem(p, NULL, &size)) {
		cmsCloseProfile(p);
		return NULL;
	}
	unsigned char *buf = (unsigned char *)malloc(size);
	if (buf == NULL) {
		cmsCloseProfile(p);
		return NULL;
	}
	if (!cmsSaveProfileToMem(p, buf, &size)) {
		free(buf);
		cmsCloseProfile(p);
		return NULL;
	}
	cmsCloseProfile(p);
	*out_size = size;
	return buf;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

var initOnce sync.Once

// ensureInit is the once-only initialization hook run before any profile or
// transform is built. Its body is empty: LittleCMS needs no explicit global
// setup here, and each transform handle is independent once built.
func ensureInit() {
	initOnce.Do(func() {})
}

type cgoTransform struct {
	handle C.cmsHTRANSFORM
	src    C.cmsHPROFILE
	dst    C.cmsHPROFILE

	// mu lets concurrent Apply calls share the handle (the transform is
	// built with cmsFLAGS_NOCACHE, so cmsDoTransform itself is safe to run
	// from multiple goroutines) while Close takes the write side to wait
	// out in-flight applications before tearing the handle down.
	mu     sync.RWMutex
	closed bool
}

// BuildTransform constructs a 16-bit RGB color transform from srcICC to
// dstICC (dstICC == nil selects the builtin sRGB profile), honoring intent
// and black-point compensation. BPC is meaningless for saturation intent;
// reconciling that is the caller's responsibility, this layer applies bpc
// exactly as given.
func BuildTransform(srcICC, dstICC []byte, intent Intent, bpc bool) (Transform, error) {
	ensureInit()
	if len(srcICC) == 0 {
		return nil, &TransformBuildError{Stage: "open-source", Cause: errors.New("empty source profile")}
	}

	srcPtr := (*C.uchar)(unsafe.Pointer(&srcICC[0]))
	srcLen := C.ulong(len(srcICC))

	var dstPtr *C.uchar
	var dstLen C.ulong
	if len(dstICC) > 0 {
		dstPtr = (*C.uchar)(unsafe.Pointer(&dstICC[0]))
		dstLen = C.ulong(len(dstICC))
	}

	useBPC := C.int(0)
	if bpc {
		useBPC = C.int(1)
	}

	var srcHandle, dstHandle C.cmsHPROFILE
	xform := C.build_transform(srcPtr, srcLen, dstPtr, dstLen, C.int(intent), useBPC, &srcHandle, &dstHandle)
	if xform == nil {
		if srcHandle != nil {
			C.cmsCloseProfile(srcHandle)
		}
		if dstHandle != nil {
			C.cmsCloseProfile(dstHandle)
		}
		return nil, &TransformBuildError{Stage: "create-transform", Cause: fmt.Errorf("lcms2 returned NULL transform")}
	}

	return &cgoTransform{handle: xform, src: srcHandle, dst: dstHandle}, nil
}

func (t *cgoTransform) Apply(dst, src []uint16) error {
	if len(dst) != len(src) {
		return &TransformRuntimeError{Cause: fmt.Errorf("dst/src length mismatch: %d != %d", len(dst), len(src))}
	}
	if len(src) == 0 {
		return nil
	}
	if len(src)%3 != 0 {
		return &TransformRuntimeError{Cause: fmt.Errorf("buffer length %d is not a multiple of 3 (RGB)", len(src))}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return &TransformRuntimeError{Cause: errors.New("transform already closed")}
	}

	pixels := len(src) / 3
	C.apply_transform(t.handle, unsafe.Pointer(&src[0]), unsafe.Pointer(&dst[0]), C.uint(pixels))
	return nil
}

func (t *cgoTransform) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	if t.handle != nil {
		C.cmsDeleteTransform(t.handle)
	}
	if t.src != nil {
		C.cmsCloseProfile(t.src)
	}
	if t.dst != nil {
		C.cmsCloseProfile(t.dst)
	}
	return nil
}

// BuiltinSRGB returns the ICC bytes LittleCMS generates for its builtin sRGB
// profile, used when the Profile Resolver needs a concrete blob (for
// embedding or MD5 comparison) rather than only a transform endpoint.
func BuiltinSRGB() ([]byte, error) {
	ensureInit()
	var size C.ulong
	buf := C.srgb_profile_bytes(&size)
	if buf == nil {
		return nil, errors.New("cms: failed to materialize builtin sRGB profile")
	}
	defer C.free(unsafe.Pointer(buf))
	return C.GoBytes(unsafe.Pointer(buf), C.int(size)), nil
}
